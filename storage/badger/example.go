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

// ExampleRepository implements storage.ExampleRepository for BadgerDB.
type ExampleRepository struct {
	backend *Backend
}

var _ storage.ExampleRepository = (*ExampleRepository)(nil)

// NewExampleRepository creates a new ExampleRepository.
func NewExampleRepository(backend *Backend) *ExampleRepository {
	return &ExampleRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *ExampleRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ExampleRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutExamples stores one or more query examples. IDs are derived from the
// question content, so re-indexing the same question overwrites in place.
func (r *ExampleRepository) PutExamples(ctx context.Context, examples ...*core.QueryExample) ([]*core.QueryExample, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, example := range examples {
			if err := core.ValidateQueryExample(example); err != nil {
				return err
			}

			example.Id = core.IDFromContent(example.Question)
			if example.InsertedAt.IsZero() {
				example.InsertedAt = time.Now().UTC()
			}
			example.UpdatedAt = time.Now().UTC()

			key := makeExampleKey(example.Id)
			value := storage.MarshalQueryExample(example)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return examples, err
}

// GetExample retrieves a single example by ID.
func (r *ExampleRepository) GetExample(ctx context.Context, id core.ID) (*core.QueryExample, error) {
	var example *core.QueryExample
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeExampleKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			example, err = storage.UnmarshalQueryExample(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return example, nil
}

// FindSimilar finds examples whose question embedding is similar to the given
// vector, ordered by similarity descending.
func (r *ExampleRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.ExampleMatch, error) {
	var matches []*core.ExampleMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(examplePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var example *core.QueryExample
			err := iter.Item().Value(func(val []byte) error {
				var err error
				example, err = storage.UnmarshalQueryExample(val)
				return err
			})
			if err != nil {
				return err
			}
			if example == nil || len(example.Vector) == 0 {
				continue
			}

			matches = append(matches, &core.ExampleMatch{
				Example: example,
				Score:   dotProduct(vector, example.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b *core.ExampleMatch) int {
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
