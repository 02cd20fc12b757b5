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


package fusion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/domus/core"
)

const defaultFillLimit = 3

// GraphSearcher is the structured retrieval branch: it turns a question into
// graph records via a generated query.
type GraphSearcher interface {
	Search(ctx context.Context, question string) ([]core.GraphRecord, error)
}

// VectorSearcher is the semantic retrieval branch: it returns up to topK
// candidates ranked by similarity.
type VectorSearcher interface {
	Search(ctx context.Context, question string, topK int) ([]core.Candidate, error)
}

// Result carries the complete outcome of one fusion call: both branches'
// raw outputs, branch-level errors, the fused candidate list, and timings.
type Result struct {
	Question string

	GraphRecords []core.GraphRecord
	GraphIds     []string
	GraphErr     error

	VectorCandidates []core.Candidate
	VectorErr        error

	// Candidates is the fused, confidence-annotated, reranked selection.
	Candidates []core.Candidate

	GraphElapsed  time.Duration
	VectorElapsed time.Duration
	Elapsed       time.Duration
}

// Engine orchestrates concurrent graph and vector retrieval and fuses the
// results under the priority selection policy. Both branches run per query
// as a fork-join; the engine holds no request state between calls.
type Engine struct {
	graph     GraphSearcher
	vector    VectorSearcher
	fetcher   Fetcher
	scorer    *Scorer
	fillLimit int
	timeout   time.Duration
	rerank    bool
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithFillLimit bounds the fused candidate list size. Default 3.
func WithFillLimit(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("fill limit cannot be negative: %d", n)
		}
		e.fillLimit = n
		return nil
	}
}

// WithTimeout sets an overall deadline for the concurrent dispatch. Zero
// means no deadline beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		if d < 0 {
			return fmt.Errorf("timeout cannot be negative: %v", d)
		}
		e.timeout = d
		return nil
	}
}

// WithScorer overrides the default confidence scorer, e.g. to retune the
// weights.
func WithScorer(s *Scorer) Option {
	return func(e *Engine) error {
		if s == nil {
			return fmt.Errorf("scorer cannot be nil")
		}
		e.scorer = s
		return nil
	}
}

// WithFetcher sets the exact-key lookup used by the backfill tier. Without
// one, tier 2 is skipped.
func WithFetcher(f Fetcher) Option {
	return func(e *Engine) error {
		e.fetcher = f
		return nil
	}
}

// WithRerank controls whether fused candidates are re-sorted by descending
// confidence. Enabled by default; disable to keep pure selection order.
func WithRerank(enabled bool) Option {
	return func(e *Engine) error {
		e.rerank = enabled
		return nil
	}
}

// NewEngine creates a fusion engine over the two retrieval branches.
func NewEngine(graph GraphSearcher, vector VectorSearcher, opts ...Option) (*Engine, error) {
	if graph == nil {
		return nil, ErrGraphSearcherRequired
	}
	if vector == nil {
		return nil, ErrVectorSearcherRequired
	}

	e := &Engine{
		graph:     graph,
		vector:    vector,
		scorer:    NewScorer(),
		fillLimit: defaultFillLimit,
		rerank:    true,
		logger:    slog.Default().With("component", "fusion-engine"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search runs both retrieval branches concurrently and fuses their results.
//
// Branch failures are symmetric and isolated: either branch may fail without
// aborting the call, its error is recorded on the Result and its output
// treated as empty. Search returns an error only for invalid input or when
// both branches fail, since fusion needs at least one evidence source.
func (e *Engine) Search(ctx context.Context, question string, topK int) (*Result, error) {
	return e.SearchWithMonitor(ctx, question, topK, nil)
}

// SearchWithMonitor is Search with observation hooks for each fusion stage.
// A nil monitor is valid.
func (e *Engine) SearchWithMonitor(ctx context.Context, question string, topK int, monitor SearchMonitor) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if topK <= 0 {
		return nil, ErrInvalidTopK
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(question)

	start := time.Now()
	result := &Result{Question: question}

	searchCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	// Fork-join: both branches must finish before fusion. Branch errors are
	// captured on the result instead of propagating through the group, so
	// one slow or failing backend never cancels the other.
	g, groupCtx := errgroup.WithContext(searchCtx)

	g.Go(func() error {
		branchStart := time.Now()
		records, err := e.graph.Search(groupCtx, question)
		result.GraphElapsed = time.Since(branchStart)
		result.GraphRecords = records
		result.GraphErr = e.classifyBranchErr(err, ErrGraphTimeout)
		return nil
	})

	g.Go(func() error {
		branchStart := time.Now()
		candidates, err := e.vector.Search(groupCtx, question, topK)
		result.VectorElapsed = time.Since(branchStart)
		result.VectorCandidates = candidates
		result.VectorErr = e.classifyBranchErr(err, ErrVectorTimeout)
		return nil
	})

	// Branch closures always return nil; the join itself cannot fail.
	_ = g.Wait()

	monitor.AfterGraphSearch(result.GraphRecords, result.GraphErr)
	monitor.AfterVectorSearch(result.VectorCandidates, result.VectorErr)

	if result.GraphErr != nil {
		result.GraphRecords = nil
		e.logger.Warn("graph branch failed", "err", result.GraphErr)
	}
	if result.VectorErr != nil {
		result.VectorCandidates = nil
		e.logger.Warn("vector branch failed", "err", result.VectorErr)
	}
	if result.GraphErr != nil && result.VectorErr != nil {
		result.Elapsed = time.Since(start)
		return result, errors.Join(ErrAllBackendsFailed, result.GraphErr, result.VectorErr)
	}

	result.GraphIds = GraphIds(result.GraphRecords)
	index := BuildIdIndex(result.GraphRecords)

	selected := SelectByPriority(ctx, result.GraphIds, result.VectorCandidates, e.fetcher, e.fillLimit, monitor)
	monitor.AfterSelection(selected)

	e.scorer.Annotate(selected, index)
	if e.rerank {
		RerankByConfidence(selected)
	}
	result.Candidates = selected

	result.Elapsed = time.Since(start)
	monitor.Finish(result)

	e.logger.Debug("fusion search complete",
		"graph_records", len(result.GraphRecords),
		"vector_candidates", len(result.VectorCandidates),
		"selected", len(result.Candidates),
		"elapsed", result.Elapsed,
	)
	return result, nil
}

// IdIndex rebuilds the identifier index for a result's graph records. Used
// by synthesis to join candidates back to their graph attributes.
func (r *Result) IdIndex() map[string]core.GraphRecord {
	return BuildIdIndex(r.GraphRecords)
}

// classifyBranchErr maps a deadline expiry to the branch's timeout sentinel
// so callers can tell which side of the dispatch ran out of time.
func (e *Engine) classifyBranchErr(err, timeoutErr error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", timeoutErr, err)
	}
	return err
}
