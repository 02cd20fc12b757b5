package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/domus/ai"
	"github.com/poiesic/domus/fusion"
)

var (
	// ErrSynthesizerRequired indicates construction without a synthesizer.
	ErrSynthesizerRequired = errors.New("synthesizer is required")

	// ErrNoCandidates indicates there is no evidence to answer from.
	ErrNoCandidates = errors.New("no candidates to synthesize an answer from")
)

// DefaultRule is the default answer-synthesis instruction.
const DefaultRule = `You are a real-estate consultant answering questions about property listings.

Rules:
- Answer in the language of the user question.
- Use ONLY the facts present in the input data; never invent listings,
  prices, addresses, or legal details.
- Prefer listings with higher confidence when they conflict.
- Mention the listing id for every listing you reference.
- If the input data cannot answer the question, say so plainly.`

// Answerer produces the final answer text from a fusion result.
type Answerer struct {
	synthesizer ai.Synthesizer
	rule        string
	logger      *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithRule overrides the default synthesis rule text.
func WithRule(rule string) Option {
	return func(a *Answerer) error {
		if strings.TrimSpace(rule) == "" {
			return fmt.Errorf("rule cannot be empty")
		}
		a.rule = rule
		return nil
	}
}

// NewAnswerer creates an answer synthesizer over the text-generation service.
func NewAnswerer(synthesizer ai.Synthesizer, opts ...Option) (*Answerer, error) {
	if synthesizer == nil {
		return nil, ErrSynthesizerRequired
	}

	a := &Answerer{
		synthesizer: synthesizer,
		rule:        DefaultRule,
		logger:      slog.Default().With("component", "answerer"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Answer serializes the fused candidates with their graph attributes and asks
// the synthesis service for the final answer.
func (a *Answerer) Answer(ctx context.Context, result *fusion.Result) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	payload := BuildPayload(result.Candidates, result.IdIndex())

	answer, err := a.synthesizer.Synthesize(ctx, result.Question, a.rule, payload)
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}

	a.logger.Debug("answer synthesized", "candidates", len(result.Candidates), "answer_len", len(answer))
	return answer, nil
}
