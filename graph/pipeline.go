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


package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/domus/ai"
	"github.com/poiesic/domus/core"
	"github.com/poiesic/domus/storage"
)

const defaultFewShotCount = 3

// Pipeline turns a natural-language question into graph records.
type Pipeline struct {
	examples  storage.ExampleRepository
	embedder  ai.Embedder
	generator ai.CypherGenerator
	executor  QueryExecutor
	schema    string
	fewShot   int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithSchema overrides the default graph schema prompt text.
func WithSchema(schema string) Option {
	return func(p *Pipeline) error {
		if strings.TrimSpace(schema) == "" {
			return fmt.Errorf("schema cannot be empty")
		}
		p.schema = schema
		return nil
	}
}

// WithFewShotCount sets how many example pairs are retrieved for the prompt.
func WithFewShotCount(k int) Option {
	return func(p *Pipeline) error {
		if k < 0 {
			return fmt.Errorf("few-shot count cannot be negative: %d", k)
		}
		p.fewShot = k
		return nil
	}
}

// NewPipeline creates an NL-to-Cypher retrieval pipeline.
func NewPipeline(examples storage.ExampleRepository, embedder ai.Embedder, generator ai.CypherGenerator, executor QueryExecutor, opts ...Option) (*Pipeline, error) {
	if examples == nil {
		return nil, ErrExamplesRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if executor == nil {
		return nil, ErrExecutorRequired
	}

	p := &Pipeline{
		examples:  examples,
		embedder:  embedder,
		generator: generator,
		executor:  executor,
		schema:    DefaultSchema,
		fewShot:   defaultFewShotCount,
		logger:    slog.Default().With("component", "graph-pipeline"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Search embeds the question, retrieves similar example pairs, generates a
// Cypher query, and executes it against the graph.
func (p *Pipeline) Search(ctx context.Context, question string) ([]core.GraphRecord, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	examples, err := p.retrieveExamples(ctx, question)
	if err != nil {
		return nil, err
	}

	cypher, err := p.generator.GenerateCypher(ctx, question, p.schema, examples)
	if err != nil {
		return nil, fmt.Errorf("generate cypher: %w", err)
	}
	if strings.TrimSpace(cypher) == "" {
		return nil, ErrEmptyCypher
	}

	records, err := p.executor.Run(ctx, cypher)
	if err != nil {
		return nil, fmt.Errorf("execute cypher: %w", err)
	}

	p.logger.Debug("graph search complete", "examples", len(examples), "records", len(records))
	return records, nil
}

// retrieveExamples finds the few-shot example pairs most similar to the question.
// An empty example store is not an error, generation proceeds zero-shot.
func (p *Pipeline) retrieveExamples(ctx context.Context, question string) ([]ai.FewShotExample, error) {
	if p.fewShot == 0 {
		return nil, nil
	}

	vector, err := p.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches, err := p.examples.FindSimilar(ctx, vector, p.fewShot)
	if err != nil {
		return nil, fmt.Errorf("find similar examples: %w", err)
	}

	shots := make([]ai.FewShotExample, 0, len(matches))
	for _, m := range matches {
		shots = append(shots, ai.FewShotExample{
			Question: m.Example.Question,
			Cypher:   m.Example.Cypher,
		})
	}
	return shots, nil
}
