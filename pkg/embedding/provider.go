package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension reports the vector size this provider produces.
	Dimension() int
}
