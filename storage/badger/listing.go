package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/domus/core"
	"github.com/poiesic/domus/storage"
)

// ListingRepository implements storage.ListingRepository for BadgerDB.
type ListingRepository struct {
	backend *Backend
}

var _ storage.ListingRepository = (*ListingRepository)(nil)

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(backend *Backend) *ListingRepository {
	return &ListingRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *ListingRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ListingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutListings stores one or more listings, keyed by their normalized keys.
// Existing listings with the same key are overwritten.
func (r *ListingRepository) PutListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, listing := range listings {
			if err := core.ValidateListing(listing); err != nil {
				return err
			}

			listing.Key = core.NormalizeKey(listing.Key)
			if listing.InsertedAt.IsZero() {
				listing.InsertedAt = time.Now().UTC()
			}
			listing.UpdatedAt = time.Now().UTC()

			key := makeListingKey(listing.Key)
			value := storage.MarshalListing(listing)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return listings, err
}

// GetListing retrieves a single listing by its normalized key.
func (r *ListingRepository) GetListing(ctx context.Context, key string) (*core.Listing, error) {
	var listing *core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeListingKey(core.NormalizeKey(key)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			listing, err = storage.UnmarshalListing(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// GetListingsByKeys retrieves listings for the given keys, up to limit.
// Missing keys are skipped without error. This is the exact-key lookup path
// used by fusion backfill; it never ranks.
func (r *ListingRepository) GetListingsByKeys(ctx context.Context, keys []string, limit int) ([]*core.Listing, error) {
	if limit <= 0 {
		return nil, nil
	}

	var listings []*core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			normalized := core.NormalizeKey(key)
			if normalized == "" {
				continue
			}

			item, err := tx.Get(makeListingKey(normalized))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			var listing *core.Listing
			err = item.Value(func(val []byte) error {
				listing, err = storage.UnmarshalListing(val)
				return err
			})
			if err != nil {
				return err
			}

			listings = append(listings, listing)
			if len(listings) >= limit {
				break
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// FindSimilar finds listings similar to the given vector using brute-force
// cosine similarity over stored unit vectors.
func (r *ListingRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ListingMatch, error) {
	var matches []*core.ListingMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(listingPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var listing *core.Listing
			err := iter.Item().Value(func(val []byte) error {
				var err error
				listing, err = storage.UnmarshalListing(val)
				return err
			})
			if err != nil {
				return err
			}
			if listing == nil || len(listing.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, listing.Vector)
			if similarity >= minSimilarity {
				matches = append(matches, &core.ListingMatch{
					Listing: listing,
					Score:   similarity,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(matches, func(a, b *core.ListingMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}
