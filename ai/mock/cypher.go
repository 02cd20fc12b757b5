package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/domus/ai"
)

// MockCypherGenerator is a test double for ai.CypherGenerator.
// It allows custom behavior injection via function fields.
type MockCypherGenerator struct {
	// GenerateCypherFunc is called by GenerateCypher if set.
	// If nil, uses default canned behavior.
	GenerateCypherFunc func(ctx context.Context, question, schema string, examples []ai.FewShotExample) (string, error)

	callCount int
}

// NewMockCypherGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockCypherGenerator().
func NewMockCypherGenerator() *MockCypherGenerator {
	return &MockCypherGenerator{}
}

// GenerateCypher returns a fixed query that embeds the question as a literal.
func (m *MockCypherGenerator) GenerateCypher(ctx context.Context, question, schema string, examples []ai.FewShotExample) (string, error) {
	m.callCount++

	if m.GenerateCypherFunc != nil {
		return m.GenerateCypherFunc(ctx, question, schema, examples)
	}

	return fmt.Sprintf("MATCH (b:BatDongSan) WHERE b.question = %q RETURN b.id AS id LIMIT 10", question), nil
}

// CallCount returns the number of times GenerateCypher was called.
func (m *MockCypherGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockCypherGenerator) Reset() {
	m.callCount = 0
	m.GenerateCypherFunc = nil
}
