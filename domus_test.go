package domus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/domus/ai/mock"
	"github.com/poiesic/domus/config"
	"github.com/poiesic/domus/core"
	"github.com/poiesic/domus/graph"
)

// stubExecutor is a graph.QueryExecutor test double returning fixed records.
type stubExecutor struct {
	records []core.GraphRecord
	err     error
}

func (s *stubExecutor) Run(ctx context.Context, cypher string) ([]core.GraphRecord, error) {
	return s.records, s.err
}

func (s *stubExecutor) Close(ctx context.Context) error { return nil }

func newTestSystem(t *testing.T, executor graph.QueryExecutor) *System {
	t.Helper()

	cfg := config.Default()
	cfg.DBPath = t.TempDir()

	sys, err := NewSystem(context.Background(), cfg,
		WithInMemoryStorage(),
		WithProvider(mock.NewMockProvider()),
		WithExecutor(executor),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Close(context.Background()) })
	return sys
}

func TestSystem_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end with seeded listings", func(t *testing.T) {
		executor := &stubExecutor{records: []core.GraphRecord{
			{"id": "12", "legal_status": "sổ đỏ chính chủ", "property_type": "nhà riêng"},
		}}
		sys := newTestSystem(t, executor)

		pipeline, err := sys.NewIngestionPipeline()
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.IngestListings(ctx, []*core.Listing{
			{Key: "12", Text: "Nhà riêng Thanh Xuân, sổ đỏ chính chủ, 5 tầng"},
			{Key: "45", Text: "Chung cư Cầu Giấy, 2 phòng ngủ"},
		})
		require.NoError(t, err)

		resp, err := sys.Ask(ctx, "Tìm nhà sổ đỏ chính chủ tại Thanh Xuân", 10)
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.NotEmpty(t, resp.Answer)
		require.NotNil(t, resp.Result)
		assert.Equal(t, []string{"12"}, resp.Result.GraphIds)
		require.NotEmpty(t, resp.Result.Candidates)
		assert.Contains(t, resp.Result.Candidates[0].Attributes, "confidence")
	})

	t.Run("empty stores yield empty answer without error", func(t *testing.T) {
		sys := newTestSystem(t, &stubExecutor{})

		resp, err := sys.Ask(ctx, "Tìm nhà", 5)
		require.NoError(t, err)
		assert.Empty(t, resp.Answer)
		assert.NotNil(t, resp.Result)
	})

	t.Run("default topK from config", func(t *testing.T) {
		sys := newTestSystem(t, &stubExecutor{})

		_, err := sys.Ask(ctx, "Tìm nhà", 0)
		assert.NoError(t, err)
	})
}

func TestSystem_CustomSynthesisRule(t *testing.T) {
	ctx := context.Background()

	synthesizer := mock.NewMockSynthesizer()
	var gotRule string
	synthesizer.SynthesizeFunc = func(ctx context.Context, question, rule, payload string) (string, error) {
		gotRule = rule
		return "ok", nil
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), mock.NewMockCypherGenerator(), synthesizer)

	cfg := config.Default()
	cfg.DBPath = t.TempDir()

	sys, err := NewSystem(ctx, cfg,
		WithInMemoryStorage(),
		WithProvider(provider),
		WithExecutor(&stubExecutor{records: []core.GraphRecord{{"id": "12"}}}),
		WithSynthesisRule("Trả lời thật ngắn gọn."),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Close(ctx) })

	pipeline, err := sys.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.IngestListings(ctx, []*core.Listing{
		{Key: "12", Text: "Nhà riêng Thanh Xuân"},
	})
	require.NoError(t, err)

	_, err = sys.Ask(ctx, "Tìm nhà", 5)
	require.NoError(t, err)
	assert.Equal(t, "Trả lời thật ngắn gọn.", gotRule)
}

func TestSystem_EvalRunner(t *testing.T) {
	ctx := context.Background()

	executor := &stubExecutor{records: []core.GraphRecord{{"id": "12"}}}
	sys := newTestSystem(t, executor)

	pipeline, err := sys.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.IngestListings(ctx, []*core.Listing{
		{Key: "12", Text: "Nhà riêng Thanh Xuân"},
	})
	require.NoError(t, err)

	runner, err := sys.NewEvalRunner()
	require.NoError(t, err)
	defer runner.Release()

	outcomes, err := runner.Run(ctx, []string{"Tìm nhà"})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, []string{"12"}, outcomes[0].Ids)
}
