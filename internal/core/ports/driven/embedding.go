package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Vector dimensionality is fixed for the lifetime of the index;
// changing the model requires re-embedding every stored product.
//
// Implementations may include:
//   - HuggingFace Inference (sentence-transformers/all-MiniLM-L6-v2)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//
// Implementations do not retry: provider failures surface wrapped in
// domain.ErrEmbeddingUnavailable and callers decide retry policy.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. Each text is
	// embedded independently; no cross-text state is kept.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the provider is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
