package driven

import (
	"context"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
)

// ProductStore persists products and executes retrieval queries.
// Backed by SQLite with an FTS index for lexical scoring; vectors are
// ranked by cosine distance against the stored embeddings.
type ProductStore interface {
	// Save stores or fully replaces a product. The caller owns ID
	// generation and timestamps.
	Save(ctx context.Context, p *domain.Product) error

	// Get retrieves a product by ID, including its embedding.
	// Returns domain.ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*domain.Product, error)

	// Delete removes a product by ID.
	// Returns domain.ErrNotFound for unknown IDs.
	Delete(ctx context.Context, id string) error

	// FindByURL looks up a product by its normalized URL, matching the
	// stored form with and without a trailing slash. Returns (nil, nil)
	// when no product matches; a non-nil error always means the store
	// itself failed, never "no match".
	FindByURL(ctx context.Context, url string) (*domain.Product, error)

	// List returns all products, embeddings included.
	List(ctx context.Context) ([]domain.Product, error)

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)

	// SearchLexical performs full-text relevance scoring across name,
	// description and tags (description weighted highest, then tags,
	// then name) with fuzzy term matching, returning up to limit hits
	// ordered by descending score.
	SearchLexical(ctx context.Context, query string, limit int) ([]LexicalHit, error)

	// SearchVector returns the k products whose embeddings are nearest
	// to the query vector by cosine similarity, descending.
	SearchVector(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// LexicalHit is a full-text search hit.
type LexicalHit struct {
	// ProductID is the matched product.
	ProductID string

	// Score is the relevance score (BM25-style, unbounded).
	Score float64
}

// VectorHit is a similarity search hit.
type VectorHit struct {
	// ProductID is the matched product.
	ProductID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
