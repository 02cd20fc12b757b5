package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/domus/ai/mock"
	"github.com/poiesic/domus/core"
	"github.com/poiesic/domus/storage/badger"
)

func newTestSearcher(t *testing.T, opts ...Option) (*Searcher, *mock.MockEmbedder) {
	t.Helper()

	listings, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	embedder := mock.NewMockEmbedder()
	s, err := NewSearcher(embedder, listings, opts...)
	require.NoError(t, err)
	return s, embedder
}

func seedListings(t *testing.T, s *Searcher, listings ...*core.Listing) {
	t.Helper()
	_, err := s.listings.PutListings(context.Background(), listings...)
	require.NoError(t, err)
}

func TestNewSearcher_Validation(t *testing.T) {
	listings, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewSearcher(nil, listings)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("requires listings", func(t *testing.T) {
		_, err := NewSearcher(mock.NewMockEmbedder(), nil)
		assert.ErrorIs(t, err, ErrListingsRequired)
	})
}

func TestSearcher_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty question", func(t *testing.T) {
		s, _ := newTestSearcher(t)
		_, err := s.Search(ctx, "  ", 5)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	})

	t.Run("non-positive topK returns empty", func(t *testing.T) {
		s, _ := newTestSearcher(t)
		got, err := s.Search(ctx, "Tìm nhà", 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ranks by similarity", func(t *testing.T) {
		s, embedder := newTestSearcher(t)
		seedListings(t, s,
			&core.Listing{Key: "12", Text: "Nhà riêng Thanh Xuân", Vector: []float32{1, 0, 0}},
			&core.Listing{Key: "45", Text: "Chung cư Cầu Giấy", Vector: []float32{0, 1, 0}},
			&core.Listing{Key: "99", Text: "Đất nền Hà Đông", Vector: []float32{0.7, 0.7, 0}},
		)
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}

		got, err := s.Search(ctx, "Tìm nhà riêng tại Thanh Xuân", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "12", got[0].Key)
		assert.Equal(t, "99", got[1].Key)
		assert.Greater(t, got[0].Score, got[1].Score)
	})

	t.Run("applies similarity threshold", func(t *testing.T) {
		s, embedder := newTestSearcher(t, WithMinSimilarity(0.9))
		seedListings(t, s,
			&core.Listing{Key: "12", Text: "Nhà riêng", Vector: []float32{1, 0, 0}},
			&core.Listing{Key: "45", Text: "Chung cư", Vector: []float32{0, 1, 0}},
		)
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}

		got, err := s.Search(ctx, "Tìm nhà riêng", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "12", got[0].Key)
	})

	t.Run("copies metadata into attributes", func(t *testing.T) {
		s, embedder := newTestSearcher(t)
		seedListings(t, s, &core.Listing{
			Key:      "12",
			Text:     "Nhà riêng Thanh Xuân",
			Vector:   []float32{1, 0, 0},
			Metadata: map[string]string{"district": "Thanh Xuân"},
		})
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}

		got, err := s.Search(ctx, "Tìm nhà", 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Thanh Xuân", got[0].Attributes["district"])
	})
}

func TestSearcher_FetchByKeys(t *testing.T) {
	ctx := context.Background()

	t.Run("non-positive limit returns empty", func(t *testing.T) {
		s, _ := newTestSearcher(t)
		got, err := s.FetchByKeys(ctx, []string{"12"}, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("skips missing keys and respects limit", func(t *testing.T) {
		s, _ := newTestSearcher(t)
		seedListings(t, s,
			&core.Listing{Key: "12", Text: "Nhà riêng", Vector: []float32{1, 0, 0}},
			&core.Listing{Key: "45", Text: "Chung cư", Vector: []float32{0, 1, 0}},
		)

		got, err := s.FetchByKeys(ctx, []string{"missing", "12", "45"}, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "12", got[0].Key)
		assert.Zero(t, got[0].Score)
	})
}
