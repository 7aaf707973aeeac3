package driving

import (
	"context"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
)

// SearchService provides product retrieval to external actors.
type SearchService interface {
	// Search performs a hybrid lexical+vector search. Vector-only and
	// lexical-only modes are selected via opts.Mode.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error)

	// FindSimilar returns the products nearest to the given product's
	// stored embedding, excluding the product itself.
	FindSimilar(ctx context.Context, id string, limit int) (*domain.SearchResponse, error)
}
