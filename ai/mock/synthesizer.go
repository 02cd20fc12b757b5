package mock

import (
	"context"
	"fmt"
)

// MockSynthesizer is a test double for ai.Synthesizer.
// It allows custom behavior injection via function fields.
type MockSynthesizer struct {
	// SynthesizeFunc is called by Synthesize if set.
	// If nil, uses default canned behavior.
	SynthesizeFunc func(ctx context.Context, question, rule, payload string) (string, error)

	callCount int
}

// NewMockSynthesizer creates a mock synthesizer with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockSynthesizer().
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// Synthesize returns a canned answer echoing the question and payload size.
func (m *MockSynthesizer) Synthesize(ctx context.Context, question, rule, payload string) (string, error) {
	m.callCount++

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, question, rule, payload)
	}

	return fmt.Sprintf("mock answer for %q (%d bytes of evidence)", question, len(payload)), nil
}

// CallCount returns the number of times Synthesize was called.
func (m *MockSynthesizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockSynthesizer) Reset() {
	m.callCount = 0
	m.SynthesizeFunc = nil
}
