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


// Package domus answers natural-language questions about real-estate
// listings by fusing graph and vector retrieval into a single ranked
// candidate set and synthesizing an answer from it.
package domus

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/domus/ai"
	"github.com/poiesic/domus/ai/openai"
	"github.com/poiesic/domus/config"
	"github.com/poiesic/domus/eval"
	"github.com/poiesic/domus/fusion"
	"github.com/poiesic/domus/graph"
	"github.com/poiesic/domus/ingest"
	"github.com/poiesic/domus/storage"
	"github.com/poiesic/domus/storage/badger"
	"github.com/poiesic/domus/synthesis"
	"github.com/poiesic/domus/vector"
)

// System wires the full question-answering pipeline: storage, AI services,
// the graph and vector retrieval branches, the fusion engine, and answer
// synthesis.
type System struct {
	cfg      *config.AppConfig
	backend  *badger.Backend
	listings storage.ListingRepository
	examples storage.ExampleRepository
	provider ai.AIProvider
	executor graph.QueryExecutor
	engine   *fusion.Engine
	answerer *synthesis.Answerer
	logger   *slog.Logger
}

// Response is the outcome of one question: the synthesized answer plus the
// full fusion result for debugging and diagnostics.
type Response struct {
	Answer string
	Result *fusion.Result
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	provider ai.AIProvider
	executor graph.QueryExecutor
	rule     string
	inMemory bool
}

// WithProvider injects an AI provider, replacing the OpenAI-backed default.
func WithProvider(provider ai.AIProvider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithExecutor injects a graph query executor, replacing the Neo4j-backed
// default.
func WithExecutor(executor graph.QueryExecutor) SystemOption {
	return func(o *systemOptions) {
		o.executor = executor
	}
}

// WithSynthesisRule replaces the built-in answer synthesis rule text.
func WithSynthesisRule(rule string) SystemOption {
	return func(o *systemOptions) {
		o.rule = rule
	}
}

// WithInMemoryStorage keeps the listing and example stores in memory.
func WithInMemoryStorage() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// NewSystem builds a System from configuration. Unless injected via options,
// the AI provider connects to the configured OpenAI-compatible services and
// the graph executor connects to the configured Neo4j instance.
func NewSystem(ctx context.Context, cfg *config.AppConfig, opts ...SystemOption) (*System, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	options := &systemOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(cfg.DBPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	listings := badger.NewListingRepository(backend)
	examples := badger.NewExampleRepository(backend)

	provider := options.provider
	if provider == nil {
		aiConfig := ai.NewConfig(
			ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
			ai.WithChatHost(cfg.AI.ChatHost),
			ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
			ai.WithChatModel(cfg.AI.ChatModel),
			ai.WithToken(cfg.APIKey()),
		)
		provider, err = openai.NewProvider(aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	executor := options.executor
	if executor == nil {
		executor, err = graph.NewNeo4jExecutor(ctx, graph.ExecutorConfig{
			URI:         cfg.Neo4j.URI,
			User:        cfg.Neo4j.User,
			Password:    cfg.Neo4jPassword(),
			Database:    cfg.Neo4j.Database,
			Timeout:     time.Duration(cfg.Neo4j.TimeoutSecs) * time.Second,
			MaxPoolSize: cfg.Neo4j.MaxPoolSize,
		})
		if err != nil {
			provider.Close()
			backend.Close()
			return nil, err
		}
	}

	graphPipeline, err := graph.NewPipeline(examples, provider.Embedder(), provider.CypherGenerator(), executor,
		graph.WithFewShotCount(cfg.Retrieval.FewShot))
	if err != nil {
		executor.Close(ctx)
		provider.Close()
		backend.Close()
		return nil, err
	}

	searcher, err := vector.NewSearcher(provider.Embedder(), listings,
		vector.WithMinSimilarity(cfg.Retrieval.MinSimilarity))
	if err != nil {
		executor.Close(ctx)
		provider.Close()
		backend.Close()
		return nil, err
	}

	scorer := &fusion.Scorer{
		Alpha:      cfg.Confidence.Alpha,
		Beta:       cfg.Confidence.Beta,
		Gamma:      cfg.Confidence.Gamma,
		DefaultHop: cfg.Confidence.DefaultHop,
	}

	engine, err := fusion.NewEngine(graphPipeline, searcher,
		fusion.WithFetcher(searcher),
		fusion.WithScorer(scorer),
		fusion.WithFillLimit(cfg.Retrieval.FillLimit),
		fusion.WithTimeout(time.Duration(cfg.Retrieval.TimeoutSecs)*time.Second),
	)
	if err != nil {
		executor.Close(ctx)
		provider.Close()
		backend.Close()
		return nil, err
	}

	var answererOpts []synthesis.Option
	if options.rule != "" {
		answererOpts = append(answererOpts, synthesis.WithRule(options.rule))
	}
	answerer, err := synthesis.NewAnswerer(provider.Synthesizer(), answererOpts...)
	if err != nil {
		executor.Close(ctx)
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &System{
		cfg:      cfg,
		backend:  backend,
		listings: listings,
		examples: examples,
		provider: provider,
		executor: executor,
		engine:   engine,
		answerer: answerer,
		logger:   slog.Default(),
	}, nil
}

// Ask answers one question end to end. A non-positive topK falls back to the
// configured retrieval result count. When fusion finds no candidates the
// Response carries an empty answer and the raw Result, so callers can tell
// "no results" apart from backend failure.
func (s *System) Ask(ctx context.Context, question string, topK int) (*Response, error) {
	return s.AskWithMonitor(ctx, question, topK, nil)
}

// AskWithMonitor is Ask with fusion observation hooks attached.
func (s *System) AskWithMonitor(ctx context.Context, question string, topK int, monitor fusion.SearchMonitor) (*Response, error) {
	if topK <= 0 {
		topK = s.cfg.Retrieval.TopK
	}

	result, err := s.engine.SearchWithMonitor(ctx, question, topK, monitor)
	if err != nil {
		return nil, err
	}

	if len(result.Candidates) == 0 {
		s.logger.Info("no candidates found", "question", question)
		return &Response{Result: result}, nil
	}

	answer, err := s.answerer.Answer(ctx, result)
	if err != nil {
		return nil, err
	}

	return &Response{Answer: answer, Result: result}, nil
}

// ListingRepository exposes the listing store.
func (s *System) ListingRepository() storage.ListingRepository {
	return s.listings
}

// ExampleRepository exposes the query example store.
func (s *System) ExampleRepository() storage.ExampleRepository {
	return s.examples
}

// NewIngestionPipeline creates an ingestion pipeline over the system's
// stores and embedder.
func (s *System) NewIngestionPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(s.listings, s.examples, s.provider.Embedder(), opts...)
}

// NewEvalRunner creates a batch evaluation runner that answers questions
// through this system.
func (s *System) NewEvalRunner(opts ...eval.Option) (*eval.Runner, error) {
	return eval.NewRunner(askerFunc(func(ctx context.Context, question string) (eval.Answer, error) {
		resp, err := s.Ask(ctx, question, 0)
		if err != nil {
			return eval.Answer{}, err
		}

		ids := make([]string, 0, len(resp.Result.Candidates))
		for _, c := range resp.Result.Candidates {
			if c.Key != "" {
				ids = append(ids, c.Key)
			}
		}
		return eval.Answer{Text: resp.Answer, Ids: ids}, nil
	}), opts...)
}

type askerFunc func(ctx context.Context, question string) (eval.Answer, error)

func (f askerFunc) Ask(ctx context.Context, question string) (eval.Answer, error) {
	return f(ctx, question)
}

// Close shuts down every component the system owns.
func (s *System) Close(ctx context.Context) error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.executor.Close(ctx); err != nil {
		s.logger.Error("error closing graph executor", "err", err)
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}
