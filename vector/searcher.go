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


package vector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/domus/ai"
	"github.com/poiesic/domus/core"
	"github.com/poiesic/domus/storage"
)

var (
	// ErrEmptyQuestion indicates a search was attempted with a blank question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmbedderRequired indicates construction without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrListingsRequired indicates construction without a listing repository.
	ErrListingsRequired = errors.New("listing repository is required")
)

// Searcher performs semantic similarity search over listings. It also serves
// exact-key lookups so fusion can backfill graph hits missing from the ranked
// results.
type Searcher struct {
	embedder      ai.Embedder
	listings      storage.ListingRepository
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithMinSimilarity drops results scoring below the threshold.
func WithMinSimilarity(min float32) Option {
	return func(s *Searcher) error {
		s.minSimilarity = min
		return nil
	}
}

// NewSearcher creates a semantic searcher over the listing store.
func NewSearcher(embedder ai.Embedder, listings storage.ListingRepository, opts ...Option) (*Searcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if listings == nil {
		return nil, ErrListingsRequired
	}

	s := &Searcher{
		embedder: embedder,
		listings: listings,
		logger:   slog.Default().With("component", "vector-searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search embeds the question and returns the topK most similar listings as
// ranked candidates.
func (s *Searcher) Search(ctx context.Context, question string, topK int) ([]core.Candidate, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if topK <= 0 {
		return nil, nil
	}

	embedding, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	embedding = core.NormalizeVector(embedding)

	matches, err := s.listings.FindSimilar(ctx, embedding, s.minSimilarity, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	candidates := make([]core.Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, m.Listing.Candidate(float64(m.Score)))
	}

	s.logger.Debug("vector search complete", "top_k", topK, "hits", len(candidates))
	return candidates, nil
}

// FetchByKeys returns candidates for exact listing keys, at most limit.
// Missing keys are skipped. Fetched candidates carry no similarity score.
func (s *Searcher) FetchByKeys(ctx context.Context, keys []string, limit int) ([]core.Candidate, error) {
	if limit <= 0 || len(keys) == 0 {
		return nil, nil
	}

	listings, err := s.listings.GetListingsByKeys(ctx, keys, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch by keys: %w", err)
	}

	candidates := make([]core.Candidate, 0, len(listings))
	for _, l := range listings {
		candidates = append(candidates, l.Candidate(0))
	}
	return candidates, nil
}
