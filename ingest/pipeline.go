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


package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/domus/ai"
	"github.com/poiesic/domus/core"
	"github.com/poiesic/domus/storage"
)

const defaultBatchSize = 32

// Pipeline embeds and stores listings and query examples. Batches are
// embedded concurrently on a worker pool; each batch is written as soon as
// its embeddings return.
type Pipeline struct {
	listings  storage.ListingRepository
	examples  storage.ExampleRepository
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many texts are embedded per request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive: %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	listings storage.ListingRepository,
	examples storage.ExampleRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if listings == nil {
		return nil, ErrListingRepositoryRequired
	}
	if examples == nil {
		return nil, ErrExampleRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		listings:  listings,
		examples:  examples,
		embedder:  embedder,
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default().With("component", "ingest-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestListings embeds listing texts and writes the listings to storage.
// Listings that already carry a vector are stored as-is. Returns the number
// of listings stored; the first batch error aborts remaining work.
func (p *Pipeline) IngestListings(ctx context.Context, listings []*core.Listing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	for _, l := range listings {
		if err := core.ValidateListing(l); err != nil {
			return 0, err
		}
	}

	err := p.forEachBatch(len(listings), func(lo, hi int) error {
		batch := listings[lo:hi]

		var toEmbed []int
		texts := make([]string, 0, len(batch))
		for i, l := range batch {
			if len(l.Vector) == 0 {
				toEmbed = append(toEmbed, i)
				texts = append(texts, l.Text)
			}
		}

		if len(texts) > 0 {
			vectors, err := p.embedder.EmbedTexts(ctx, texts)
			if err != nil {
				return fmt.Errorf("embed listings: %w", err)
			}
			if len(vectors) != len(texts) {
				return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(vectors))
			}
			for j, i := range toEmbed {
				batch[i].Vector = core.NormalizeVector(vectors[j])
			}
		}

		_, putErr := p.listings.PutListings(ctx, batch...)
		return putErr
	})
	if err != nil {
		return 0, err
	}

	p.logger.Info("listings ingested", "count", len(listings))
	return len(listings), nil
}

// IndexExamples embeds example questions and writes the pairs to storage.
// Returns the number of examples stored.
func (p *Pipeline) IndexExamples(ctx context.Context, examples []*core.QueryExample) (int, error) {
	if len(examples) == 0 {
		return 0, nil
	}

	for _, e := range examples {
		if err := core.ValidateQueryExample(e); err != nil {
			return 0, err
		}
	}

	err := p.forEachBatch(len(examples), func(lo, hi int) error {
		batch := examples[lo:hi]

		questions := make([]string, len(batch))
		for i, e := range batch {
			questions[i] = e.Question
		}

		vectors, err := p.embedder.EmbedTexts(ctx, questions)
		if err != nil {
			return fmt.Errorf("embed example questions: %w", err)
		}
		if len(vectors) != len(questions) {
			return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(questions), len(vectors))
		}
		for i := range batch {
			batch[i].Vector = core.NormalizeVector(vectors[i])
		}

		_, putErr := p.examples.PutExamples(ctx, batch...)
		return putErr
	})
	if err != nil {
		return 0, err
	}

	p.logger.Info("examples indexed", "count", len(examples))
	return len(examples), nil
}

// forEachBatch runs fn over [lo, hi) index ranges of size batchSize on the
// worker pool and waits for all batches. The first error wins.
func (p *Pipeline) forEachBatch(total int, fn func(lo, hi int) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for lo := 0; lo < total; lo += p.batchSize {
		hi := lo + p.batchSize
		if hi > total {
			hi = total
		}

		lo, hi := lo, hi
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := fn(lo, hi); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
	}

	wg.Wait()
	return firstErr
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
