package storage

import (
	"context"

	"github.com/poiesic/domus/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ListingRepository provides operations for managing real-estate listings.
// It doubles as the vector index for the retrieval pipeline: similarity search
// over stored embeddings plus a direct fetch path by listing key. The store is
// read-only at query time; writes happen only during ingestion.
type ListingRepository interface {
	Repository

	// PutListings stores one or more listings, keyed by their normalized keys.
	// Existing listings with the same key are overwritten (the source data is
	// authoritative). Sets InsertedAt if not already set.
	PutListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error)

	// GetListing retrieves a single listing by its normalized key.
	// Returns ErrNotFound if the listing doesn't exist.
	GetListing(ctx context.Context, key string) (*core.Listing, error)

	// GetListingsByKeys retrieves listings for the given keys, up to limit.
	// This is an exact-key lookup, not a ranked query. Missing keys are
	// skipped without error; the result may be shorter than the input.
	GetListingsByKeys(ctx context.Context, keys []string, limit int) ([]*core.Listing, error)

	// FindSimilar finds listings similar to the given vector.
	// Returns listings with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ListingMatch, error)
}

// ExampleRepository provides operations for managing NL-to-Cypher query examples.
type ExampleRepository interface {
	Repository

	// PutExamples stores one or more query examples.
	// IDs are derived from the question content (IDFromContent), so storing
	// the same question twice overwrites the earlier example.
	PutExamples(ctx context.Context, examples ...*core.QueryExample) ([]*core.QueryExample, error)

	// GetExample retrieves a single example by ID.
	// Returns ErrNotFound if the example doesn't exist.
	GetExample(ctx context.Context, id core.ID) (*core.QueryExample, error)

	// FindSimilar finds examples whose question embedding is similar to the
	// given vector, up to limit results, ordered by similarity (highest first).
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.ExampleMatch, error)
}
