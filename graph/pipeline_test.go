package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/domus/ai"
	"github.com/poiesic/domus/ai/mock"
	"github.com/poiesic/domus/core"
	"github.com/poiesic/domus/storage/badger"
)

// fakeExecutor is a QueryExecutor test double.
type fakeExecutor struct {
	lastCypher string
	records    []core.GraphRecord
	err        error
	calls      int
}

func (f *fakeExecutor) Run(ctx context.Context, cypher string) ([]core.GraphRecord, error) {
	f.calls++
	f.lastCypher = cypher
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeExecutor) Close(ctx context.Context) error { return nil }

func newTestPipeline(t *testing.T, executor QueryExecutor, opts ...Option) (*Pipeline, *mock.MockEmbedder, *mock.MockCypherGenerator) {
	t.Helper()

	_, examples, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	embedder := mock.NewMockEmbedder()
	generator := mock.NewMockCypherGenerator()

	p, err := NewPipeline(examples, embedder, generator, executor, opts...)
	require.NoError(t, err)
	return p, embedder, generator
}

func TestNewPipeline_Validation(t *testing.T) {
	executor := &fakeExecutor{}
	embedder := mock.NewMockEmbedder()
	generator := mock.NewMockCypherGenerator()

	_, examples, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	t.Run("requires examples", func(t *testing.T) {
		_, err := NewPipeline(nil, embedder, generator, executor)
		assert.ErrorIs(t, err, ErrExamplesRequired)
	})

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewPipeline(examples, nil, generator, executor)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("requires generator", func(t *testing.T) {
		_, err := NewPipeline(examples, embedder, nil, executor)
		assert.ErrorIs(t, err, ErrGeneratorRequired)
	})

	t.Run("requires executor", func(t *testing.T) {
		_, err := NewPipeline(examples, embedder, generator, nil)
		assert.ErrorIs(t, err, ErrExecutorRequired)
	})

	t.Run("rejects empty schema", func(t *testing.T) {
		_, err := NewPipeline(examples, embedder, generator, executor, WithSchema("   "))
		assert.Error(t, err)
	})

	t.Run("rejects negative few-shot count", func(t *testing.T) {
		_, err := NewPipeline(examples, embedder, generator, executor, WithFewShotCount(-1))
		assert.Error(t, err)
	})
}

func TestPipeline_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty question", func(t *testing.T) {
		p, _, _ := newTestPipeline(t, &fakeExecutor{})
		_, err := p.Search(ctx, "   ")
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	})

	t.Run("runs generated cypher", func(t *testing.T) {
		executor := &fakeExecutor{
			records: []core.GraphRecord{
				{"id": "12", "full_address": "Thanh Xuân, Hà Nội"},
				{"id": "45"},
			},
		}
		p, _, generator := newTestPipeline(t, executor)
		generator.GenerateCypherFunc = func(ctx context.Context, question, schema string, examples []ai.FewShotExample) (string, error) {
			assert.Equal(t, DefaultSchema, schema)
			return "MATCH (b:BatDongSan) RETURN b.id AS id", nil
		}

		records, err := p.Search(ctx, "nhà sổ đỏ tại Thanh Xuân")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "12", records[0].Key())
		assert.Equal(t, "MATCH (b:BatDongSan) RETURN b.id AS id", executor.lastCypher)
	})

	t.Run("passes retrieved examples to generator", func(t *testing.T) {
		executor := &fakeExecutor{}
		p, embedder, generator := newTestPipeline(t, executor)

		seeded := []*core.QueryExample{
			{Question: "Tìm nhà 5 tầng", Cypher: "MATCH (b:BatDongSan) WHERE b.floors = 5 RETURN b.id AS id", Vector: []float32{1, 0, 0}},
			{Question: "Tìm chung cư", Cypher: "MATCH (b:BatDongSan) WHERE b.property_type = 'chung cư' RETURN b.id AS id", Vector: []float32{0, 1, 0}},
		}
		_, err := p.examples.PutExamples(ctx, seeded...)
		require.NoError(t, err)

		// Align query vector with first example so retrieval order is known.
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}

		var got []ai.FewShotExample
		generator.GenerateCypherFunc = func(ctx context.Context, question, schema string, examples []ai.FewShotExample) (string, error) {
			got = examples
			return "MATCH (b:BatDongSan) RETURN b.id AS id", nil
		}

		_, err = p.Search(ctx, "Tìm nhà nhiều tầng")
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, "Tìm nhà 5 tầng", got[0].Question)
	})

	t.Run("zero few-shot skips embedding", func(t *testing.T) {
		p, embedder, _ := newTestPipeline(t, &fakeExecutor{}, WithFewShotCount(0))

		_, err := p.Search(ctx, "Tìm nhà")
		require.NoError(t, err)
		assert.Zero(t, embedder.CallCount())
	})

	t.Run("rejects empty generated cypher", func(t *testing.T) {
		p, _, generator := newTestPipeline(t, &fakeExecutor{})
		generator.GenerateCypherFunc = func(ctx context.Context, question, schema string, examples []ai.FewShotExample) (string, error) {
			return "   ", nil
		}

		_, err := p.Search(ctx, "Tìm nhà")
		assert.ErrorIs(t, err, ErrEmptyCypher)
	})

	t.Run("propagates executor errors", func(t *testing.T) {
		boom := errors.New("connection refused")
		p, _, _ := newTestPipeline(t, &fakeExecutor{err: boom})

		_, err := p.Search(ctx, "Tìm nhà")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("propagates generator errors", func(t *testing.T) {
		boom := errors.New("model unavailable")
		p, _, generator := newTestPipeline(t, &fakeExecutor{})
		generator.GenerateCypherFunc = func(ctx context.Context, question, schema string, examples []ai.FewShotExample) (string, error) {
			return "", boom
		}

		_, err := p.Search(ctx, "Tìm nhà")
		assert.ErrorIs(t, err, boom)
	})
}
