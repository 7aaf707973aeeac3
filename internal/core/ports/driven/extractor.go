package driven

import (
	"context"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
)

// PageExtractor fetches a product's web page and derives structured
// content from it.
type PageExtractor interface {
	// Extract fetches the URL and returns the parsed page content.
	// HTTP 4xx/5xx responses surface as domain.ErrExtractionBlocked;
	// transport and DNS failures as domain.ErrExtractionUnreachable.
	Extract(ctx context.Context, url string) (*domain.PageContent, error)

	// ProbePricing checks a short list of common pricing-page paths and
	// reports whether pricing-like markup was found. Informational only;
	// probe failures are not errors.
	ProbePricing(ctx context.Context, url string) (*domain.PricingInfo, error)
}
