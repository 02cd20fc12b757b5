package fusion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/domus/core"
)

// fakeFetcher is a Fetcher test double backed by a fixed key set.
type fakeFetcher struct {
	store map[string]core.Candidate
	err   error
	calls [][]string
}

func (f *fakeFetcher) FetchByKeys(ctx context.Context, keys []string, limit int) ([]core.Candidate, error) {
	f.calls = append(f.calls, keys)
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Candidate
	for _, k := range keys {
		if c, ok := f.store[k]; ok {
			out = append(out, c)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func cand(id string, score float64) core.Candidate {
	return core.Candidate{Key: id, Text: "listing " + id, Score: score}
}

func pickedIds(candidates []core.Candidate) []string {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Key)
	}
	return ids
}

func TestSelectByPriority(t *testing.T) {
	ctx := context.Background()

	t.Run("overlap then backfill in graph order", func(t *testing.T) {
		graphIds := []string{"12", "45", "99"}
		vector := []core.Candidate{cand("45", 0.9), cand("7", 0.8), cand("12", 0.7)}
		fetcher := &fakeFetcher{store: map[string]core.Candidate{"99": cand("99", 0)}}

		got := SelectByPriority(ctx, graphIds, vector, fetcher, 3, nil)

		assert.Equal(t, []string{"12", "45", "99"}, pickedIds(got))
		require.Len(t, fetcher.calls, 1)
		assert.Equal(t, []string{"99"}, fetcher.calls[0])
	})

	t.Run("fallback fills when backfill misses", func(t *testing.T) {
		graphIds := []string{"12", "45", "99"}
		vector := []core.Candidate{cand("45", 0.9), cand("7", 0.8), cand("12", 0.7)}
		fetcher := &fakeFetcher{store: map[string]core.Candidate{}}

		got := SelectByPriority(ctx, graphIds, vector, fetcher, 3, nil)

		assert.Equal(t, []string{"12", "45", "7"}, pickedIds(got))
	})

	t.Run("overlap tier stops at fill limit", func(t *testing.T) {
		graphIds := []string{"1", "2", "3"}
		vector := []core.Candidate{cand("3", 0.9), cand("2", 0.8), cand("1", 0.7)}
		fetcher := &fakeFetcher{store: map[string]core.Candidate{}}

		got := SelectByPriority(ctx, graphIds, vector, fetcher, 2, nil)

		assert.Equal(t, []string{"1", "2"}, pickedIds(got))
		assert.Empty(t, fetcher.calls)
	})

	t.Run("backfill requests only remaining capacity", func(t *testing.T) {
		graphIds := []string{"1", "90", "91", "92"}
		vector := []core.Candidate{cand("1", 0.9)}
		fetcher := &fakeFetcher{store: map[string]core.Candidate{
			"90": cand("90", 0), "91": cand("91", 0), "92": cand("92", 0),
		}}

		got := SelectByPriority(ctx, graphIds, vector, fetcher, 3, nil)

		assert.Equal(t, []string{"1", "90", "91"}, pickedIds(got))
	})

	t.Run("fetch error degrades to fallback", func(t *testing.T) {
		graphIds := []string{"99"}
		vector := []core.Candidate{cand("7", 0.8)}
		fetcher := &fakeFetcher{err: errors.New("store unavailable")}

		got := SelectByPriority(ctx, graphIds, vector, fetcher, 2, nil)

		assert.Equal(t, []string{"7"}, pickedIds(got))
	})

	t.Run("nil fetcher skips backfill", func(t *testing.T) {
		graphIds := []string{"99"}
		vector := []core.Candidate{cand("7", 0.8)}

		got := SelectByPriority(ctx, graphIds, vector, nil, 2, nil)

		assert.Equal(t, []string{"7"}, pickedIds(got))
	})

	t.Run("no id selected twice", func(t *testing.T) {
		graphIds := []string{"12", "12", " 12 "}
		vector := []core.Candidate{cand("12", 0.9), cand(" 12", 0.8), cand("7", 0.7)}

		got := SelectByPriority(ctx, graphIds, vector, nil, 5, nil)

		seen := map[string]int{}
		for _, c := range got {
			if id := core.NormalizeKey(c.Key); id != "" {
				seen[id]++
			}
		}
		for id, n := range seen {
			assert.Equal(t, 1, n, "id %q selected %d times", id, n)
		}
	})

	t.Run("candidates without id are last resort filler", func(t *testing.T) {
		graphIds := []string{}
		vector := []core.Candidate{
			{Text: "no id", Score: 0.9},
			cand("7", 0.8),
		}

		got := SelectByPriority(ctx, graphIds, vector, nil, 2, nil)

		require.Len(t, got, 2)
		assert.Empty(t, got[0].Key)
		assert.Equal(t, "7", got[1].Key)
	})

	t.Run("partial fill is valid", func(t *testing.T) {
		got := SelectByPriority(ctx, []string{"1"}, []core.Candidate{cand("1", 0.9)}, nil, 10, nil)
		assert.Equal(t, []string{"1"}, pickedIds(got))
	})

	t.Run("non-positive fill limit returns empty", func(t *testing.T) {
		vector := []core.Candidate{cand("1", 0.9)}
		assert.Empty(t, SelectByPriority(ctx, []string{"1"}, vector, nil, 0, nil))
		assert.Empty(t, SelectByPriority(ctx, []string{"1"}, vector, nil, -1, nil))
	})

	t.Run("empty vector result leaves only backfill", func(t *testing.T) {
		graphIds := []string{"12", "99"}
		fetcher := &fakeFetcher{store: map[string]core.Candidate{"12": cand("12", 0)}}

		got := SelectByPriority(ctx, graphIds, nil, fetcher, 3, nil)

		assert.Equal(t, []string{"12"}, pickedIds(got))
	})

	t.Run("bound invariant", func(t *testing.T) {
		vector := []core.Candidate{cand("1", 0.9), cand("2", 0.8), cand("3", 0.7), cand("4", 0.6)}
		for limit := 0; limit <= 6; limit++ {
			got := SelectByPriority(ctx, []string{"2", "3"}, vector, nil, limit, nil)
			assert.LessOrEqual(t, len(got), limit)
		}
	})
}

func TestBuildIdIndex(t *testing.T) {
	t.Run("excludes records without id", func(t *testing.T) {
		index := BuildIdIndex([]core.GraphRecord{
			{"id": "12", "full_address": "Thanh Xuân"},
			{"full_address": "no id"},
			{"id": "  "},
		})
		assert.Len(t, index, 1)
		assert.Contains(t, index, "12")
	})

	t.Run("duplicate ids last write wins", func(t *testing.T) {
		index := BuildIdIndex([]core.GraphRecord{
			{"id": "12", "version": 1},
			{"id": "12", "version": 2},
		})
		assert.Equal(t, 2, index["12"]["version"])
	})

	t.Run("normalizes numeric ids", func(t *testing.T) {
		index := BuildIdIndex([]core.GraphRecord{{"id": 12}})
		assert.Contains(t, index, "12")
	})
}

func TestGraphIds(t *testing.T) {
	ids := GraphIds([]core.GraphRecord{
		{"id": " 12 "},
		{"no_id": true},
		{"id": "45"},
		{"id": ""},
		{"id": "99"},
	})
	assert.Equal(t, []string{"12", "45", "99"}, ids)
}
