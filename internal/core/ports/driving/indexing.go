package driving

import (
	"context"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
)

// IndexRequest carries the inputs for indexing a product.
type IndexRequest struct {
	// URL is the product URL. Required.
	URL string

	// Name and Description enable manual mode when both are supplied:
	// content extraction is skipped entirely.
	Name        string
	Description string

	// Tags are caller-supplied tags, merged with extracted ones.
	Tags []string

	// Categories are values from the closed category vocabulary.
	Categories []string

	// IndexedBy is the identity handle of the caller. When set, the
	// page's creator-identity meta tag must match it.
	IndexedBy string
}

// UpdateRequest carries a partial field set for a product update.
// Nil pointers leave the stored field untouched.
type UpdateRequest struct {
	Name        *string
	Description *string
	Tags        []string
	Categories  []string
}

// ReindexResult is the outcome of a re-index: the refreshed product and
// a per-field change report against the pre-refresh snapshot.
type ReindexResult struct {
	Product *domain.Product     `json:"product"`
	Changes domain.ChangeReport `json:"changes"`
}

// BulkItemError records a single failed item of a bulk operation.
type BulkItemError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// BulkIndexResult accumulates per-item outcomes of a bulk index.
// One bad URL never aborts the batch.
type BulkIndexResult struct {
	Indexed []domain.Product `json:"indexed"`
	Failed  []BulkItemError  `json:"failed"`
}

// IndexingService drives the product lifecycle: create, refresh, edit,
// claim and delete.
type IndexingService interface {
	// Index creates a product from a URL. The returned product has its
	// embedding stripped.
	Index(ctx context.Context, req IndexRequest) (*domain.Product, error)

	// Reindex refreshes a product from its source page, preserving
	// CreatedAt and reporting per-field changes.
	Reindex(ctx context.Context, id string) (*ReindexResult, error)

	// Update applies a partial field edit, recomputing the embedding
	// when name, description or tags change.
	Update(ctx context.Context, id string, req UpdateRequest) error

	// Delete removes a product. A second delete of the same ID reports
	// domain.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Claim verifies ownership of an already-indexed product via the
	// page's creator-identity meta tag and records the owner handle.
	Claim(ctx context.Context, url, handle string) (*domain.Product, error)

	// BulkIndex indexes multiple products, isolating per-item failures.
	BulkIndex(ctx context.Context, reqs []IndexRequest) (*BulkIndexResult, error)

	// Get retrieves a product by ID with its embedding stripped.
	Get(ctx context.Context, id string) (*domain.Product, error)
}
