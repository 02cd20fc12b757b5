// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/domus"
	"github.com/poiesic/domus/config"
	"github.com/poiesic/domus/eval"
	"github.com/poiesic/domus/ingest"
)

func main() {
	app := &cli.App{
		Name:  "domus",
		Usage: "Hybrid graph + vector question answering over real-estate listings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "rule-file",
				Usage: "File with answer synthesis instructions, replacing the built-in rule",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a single question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Vector results to retrieve (0 uses config)",
					},
					&cli.BoolFlag{
						Name:  "show-debug",
						Usage: "Print retrieval and scoring diagnostics",
					},
				},
			},
			{
				Name:   "repl",
				Usage:  "Answer questions interactively",
				Action: replCommand,
			},
			{
				Name:   "seed",
				Usage:  "Embed listings from a CSV file into the vector store",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "listings",
						Usage:    "CSV file with id and text columns",
						Required: true,
					},
				},
			},
			{
				Name:   "index-examples",
				Usage:  "Embed question/Cypher example pairs for few-shot retrieval",
				Action: indexExamplesCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "examples",
						Usage:    "CSV file with Question and Cypher columns",
						Required: true,
					},
				},
			},
			{
				Name:   "eval",
				Usage:  "Answer a batch of questions and write results to CSV",
				Action: evalCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "questions",
						Usage:    "CSV file with a question column",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output CSV path",
						Value: "results.csv",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Questions answered in parallel",
						Value: 1,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) error {
	// .env is optional; environment variables win when both are set
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func newSystem(c *cli.Context) (*domus.System, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var opts []domus.SystemOption
	if path := c.String("rule-file"); path != "" {
		rule, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rule file: %w", err)
		}
		opts = append(opts, domus.WithSynthesisRule(string(rule)))
	}

	return domus.NewSystem(c.Context, cfg, opts...)
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	sys, err := newSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close(c.Context)

	return answerOne(c.Context, sys, question, c.Int("top-k"), c.Bool("show-debug"))
}

func replCommand(c *cli.Context) error {
	sys, err := newSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close(c.Context)

	fmt.Println("Ask about listings. Empty line exits.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}
		if err := answerOne(c.Context, sys, question, 0, false); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func answerOne(ctx context.Context, sys *domus.System, question string, topK int, showDebug bool) error {
	resp, err := sys.Ask(ctx, question, topK)
	if err != nil {
		return err
	}

	result := resp.Result
	if result.GraphErr != nil {
		fmt.Fprintf(os.Stderr, "warning: graph retrieval degraded: %v\n", result.GraphErr)
	}
	if result.VectorErr != nil {
		fmt.Fprintf(os.Stderr, "warning: vector retrieval degraded: %v\n", result.VectorErr)
	}

	if len(result.Candidates) == 0 {
		fmt.Println("No matching listings found.")
		return nil
	}

	fmt.Println(resp.Answer)

	if showDebug {
		fmt.Println("\n--- retrieval ---")
		fmt.Printf("graph ids (%d): %v\n", len(result.GraphIds), result.GraphIds)
		fmt.Printf("vector hits: %d\n", len(result.VectorCandidates))
		fmt.Printf("graph: %v, vector: %v, total: %v\n", result.GraphElapsed, result.VectorElapsed, result.Elapsed)
		fmt.Println("--- candidates ---")
		for _, cand := range result.Candidates {
			id := cand.Key
			if id == "" {
				id = "N/A"
			}
			fmt.Printf("id=%s confidence=%v semantic=%v hop=%v\n",
				id, cand.Attributes["confidence"], cand.Attributes["semantic"], cand.Attributes["hop"])
		}
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	listings, err := ingest.LoadListingsCSV(c.String("listings"))
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		return errors.New("no listings found in input file")
	}

	sys, err := newSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close(c.Context)

	pipeline, err := sys.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	n, err := pipeline.IngestListings(c.Context, listings)
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d listings.\n", n)
	return nil
}

func indexExamplesCommand(c *cli.Context) error {
	examples, err := ingest.LoadExamplesCSV(c.String("examples"))
	if err != nil {
		return err
	}
	if len(examples) == 0 {
		return errors.New("no examples found in input file")
	}

	sys, err := newSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close(c.Context)

	pipeline, err := sys.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	n, err := pipeline.IndexExamples(c.Context, examples)
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d examples.\n", n)
	return nil
}

func evalCommand(c *cli.Context) error {
	questions, err := eval.ReadQuestionsCSV(c.String("questions"))
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return errors.New("no questions found in input file")
	}

	sys, err := newSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close(c.Context)

	runner, err := sys.NewEvalRunner(eval.WithConcurrency(c.Int("concurrency")))
	if err != nil {
		return err
	}
	defer runner.Release()

	fmt.Printf("Evaluating %d questions...\n", len(questions))
	outcomes, err := runner.Run(c.Context, questions)
	if err != nil {
		return err
	}

	if err := eval.WriteResultsCSV(c.String("out"), outcomes); err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	fmt.Printf("Done. %d answered, %d failed. Results: %s\n", len(outcomes)-failed, failed, c.String("out"))
	return nil
}
