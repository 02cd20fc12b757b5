package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// FewShotExample is a question/Cypher pair included in a generation prompt.
type FewShotExample struct {
	Question string
	Cypher   string
}

// CypherGenerator translates a natural-language question into a Cypher query.
// Implementations must be thread-safe for concurrent use.
type CypherGenerator interface {
	// GenerateCypher produces a Cypher query for the question, guided by the
	// graph schema description and semantically similar few-shot examples.
	// The returned query is cleaned of markdown fences and surrounding noise.
	GenerateCypher(ctx context.Context, question, schema string, examples []FewShotExample) (string, error)
}

// Synthesizer produces the final natural-language answer from the fused,
// confidence-annotated evidence. Implementations must be thread-safe.
type Synthesizer interface {
	// Synthesize generates an answer to the question from the structured
	// evidence payload, following the given synthesis rule.
	Synthesize(ctx context.Context, question, rule, payload string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder, CypherGenerator and
// Synthesizer instances, ensuring they share configuration and resources.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// CypherGenerator returns the NL-to-Cypher generation service.
	// The returned CypherGenerator is safe for concurrent use.
	CypherGenerator() CypherGenerator

	// Synthesizer returns the answer synthesis service.
	// The returned Synthesizer is safe for concurrent use.
	Synthesizer() Synthesizer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
