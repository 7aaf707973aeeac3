package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested product does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidURL indicates a URL failed validation or normalization.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrDuplicateURL indicates the normalized URL is already indexed.
	ErrDuplicateURL = errors.New("product URL is already indexed")

	// ErrExtractionBlocked indicates the site refuses automated access.
	// Callers should offer manual data entry as a fallback.
	ErrExtractionBlocked = errors.New("website is blocking automated access")

	// ErrExtractionUnreachable indicates the site could not be reached
	// (network or DNS failure).
	ErrExtractionUnreachable = errors.New("website is unreachable")

	// ErrEmbeddingUnavailable indicates the embedding provider is degraded.
	// The operation is retryable; tag expansion degrades gracefully instead.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrOwnershipFailed indicates the page's creator-identity meta tag
	// does not match the caller's claimed handle.
	ErrOwnershipFailed = errors.New("ownership verification failed")

	// ErrRateLimited indicates a re-index was attempted inside the
	// cooldown window.
	ErrRateLimited = errors.New("rate limited")

	// ErrValidation indicates missing or malformed input fields.
	ErrValidation = errors.New("validation failed")
)

// OwnershipError carries remediation detail for a failed ownership check:
// the meta tag the site would need for the claim to succeed.
type OwnershipError struct {
	// Handle is the caller's claimed identity handle (without '@').
	Handle string

	// Found is the creator-identity meta tag value found on the page,
	// empty when absent.
	Found string
}

func (e *OwnershipError) Error() string {
	found := e.Found
	if found == "" {
		found = "not found"
	}
	return fmt.Sprintf(
		"ownership verification failed: the site's twitter:creator meta tag (%s) does not match @%s; add <meta name=\"twitter:creator\" content=\"@%s\"> to the site",
		found, e.Handle, e.Handle,
	)
}

// ExpectedMetaTag returns the exact meta tag the site needs for the
// claim to succeed.
func (e *OwnershipError) ExpectedMetaTag() string {
	return fmt.Sprintf(`<meta name="twitter:creator" content="@%s">`, e.Handle)
}

func (e *OwnershipError) Unwrap() error {
	return ErrOwnershipFailed
}

// RateLimitError carries the remaining cooldown for a re-index attempt.
type RateLimitError struct {
	// HoursRemaining is the number of whole hours until the product may
	// be re-indexed again, rounded up.
	HoursRemaining int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: product can be re-indexed in %d hours", e.HoursRemaining)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// ExtractionError wraps a page fetch failure with its URL and HTTP status.
type ExtractionError struct {
	// URL is the fetched URL.
	URL string

	// StatusCode is the HTTP status, 0 for transport failures.
	StatusCode int

	// Err is ErrExtractionBlocked or ErrExtractionUnreachable.
	Err error
}

func (e *ExtractionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
