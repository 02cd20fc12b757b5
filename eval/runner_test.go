package eval

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAsker answers questions from a fixed map.
type fakeAsker struct {
	answers map[string]string
	failOn  string
	calls   atomic.Int64
}

func (f *fakeAsker) Ask(ctx context.Context, question string) (Answer, error) {
	f.calls.Add(1)
	if question == f.failOn {
		return Answer{}, errors.New("backend unavailable")
	}
	if a, ok := f.answers[question]; ok {
		return Answer{Text: a, Ids: []string{"12", "45"}}, nil
	}
	return Answer{Text: "không tìm thấy kết quả"}, nil
}

func TestNewRunner_RequiresAsker(t *testing.T) {
	_, err := NewRunner(nil)
	assert.ErrorIs(t, err, ErrAskerRequired)
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("outcomes in input order", func(t *testing.T) {
		asker := &fakeAsker{answers: map[string]string{
			"câu một": "trả lời một",
			"câu hai": "trả lời hai",
		}}
		r, err := NewRunner(asker, WithConcurrency(4))
		require.NoError(t, err)
		t.Cleanup(r.Release)

		outcomes, err := r.Run(ctx, []string{"câu một", "câu hai"})
		require.NoError(t, err)
		require.Len(t, outcomes, 2)

		assert.Equal(t, 1, outcomes[0].Index)
		assert.Equal(t, "trả lời một", outcomes[0].Answer)
		assert.Equal(t, []string{"12", "45"}, outcomes[0].Ids)
		assert.Equal(t, 2, outcomes[1].Index)
		assert.Equal(t, "trả lời hai", outcomes[1].Answer)
	})

	t.Run("failures recorded not fatal", func(t *testing.T) {
		asker := &fakeAsker{failOn: "câu hỏng"}
		r, err := NewRunner(asker)
		require.NoError(t, err)
		t.Cleanup(r.Release)

		outcomes, err := r.Run(ctx, []string{"câu hỏng", "câu lành"})
		require.NoError(t, err)

		assert.Error(t, outcomes[0].Err)
		assert.NoError(t, outcomes[1].Err)
		assert.Equal(t, int64(2), asker.calls.Load())
	})

	t.Run("empty batch", func(t *testing.T) {
		r, err := NewRunner(&fakeAsker{})
		require.NoError(t, err)
		t.Cleanup(r.Release)

		outcomes, err := r.Run(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, outcomes)
	})
}

func TestReadQuestionsCSV(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads question column", func(t *testing.T) {
		path := filepath.Join(dir, "questions.csv")
		content := "question\nTìm nhà 5 tầng\n\nTìm chung cư\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		questions, err := ReadQuestionsCSV(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Tìm nhà 5 tầng", "Tìm chung cư"}, questions)
	})

	t.Run("missing column", func(t *testing.T) {
		path := filepath.Join(dir, "bad.csv")
		require.NoError(t, os.WriteFile(path, []byte("query\nx\n"), 0o644))

		_, err := ReadQuestionsCSV(path)
		assert.ErrorIs(t, err, ErrMissingQuestionColumn)
	})
}

func TestWriteResultsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	outcomes := []Outcome{
		{Index: 1, Question: "câu một", Answer: "trả lời", Ids: []string{"12", "45"}},
		{Index: 2, Question: "câu hai", Err: fmt.Errorf("backend unavailable")},
	}

	require.NoError(t, WriteResultsCSV(path, outcomes))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.True(t, strings.HasPrefix(content, "id,question,answer,listing_ids,elapsed_ms"))
	assert.Contains(t, content, "1,câu một,trả lời,12;45,0")
	assert.Contains(t, content, "ERROR: backend unavailable")
}
