package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Limits applied to product documents.
const (
	// MaxTags is the maximum number of tags a product may carry after
	// merging and expansion.
	MaxTags = 15

	// MaxCategories is the maximum number of categories a product may carry.
	MaxCategories = 5
)

// Product represents an indexed web product.
// It is the unit of storage and retrieval.
type Product struct {
	// ID is the unique identifier, generated at first indexing.
	ID string `json:"id"`

	// Name is the product's display name.
	Name string `json:"name"`

	// Description is free text used both for display and as
	// lexical/embedding input.
	Description string `json:"description"`

	// Tags is a deduplicated set of lowercase strings.
	Tags []string `json:"tags"`

	// Categories is an optional set of strings from the closed
	// category vocabulary.
	Categories []string `json:"categories,omitempty"`

	// URL is the canonical root-domain URL. Its normalized form is the
	// de-duplication key across the store.
	URL string `json:"url"`

	// OwnerHandle records who may mutate or re-index the product.
	// Empty means unclaimed.
	OwnerHandle string `json:"ownerHandle,omitempty"`

	// Embedding is the vector representation of the searchable text.
	// It is a write-only internal field, never returned to callers.
	Embedding []float32 `json:"-"`

	// CreatedAt is when the product was first indexed. Immutable.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is set on every content-affecting mutation and anchors
	// the re-index cooldown.
	UpdatedAt time.Time `json:"updatedAt"`
}

// SearchableText returns the canonical text whose embedding becomes the
// product's vector: name, description and space-joined tags, in that order,
// with collapsed whitespace.
func (p *Product) SearchableText() string {
	parts := make([]string, 0, 3)
	if p.Name != "" {
		parts = append(parts, p.Name)
	}
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if len(p.Tags) > 0 {
		parts = append(parts, strings.Join(p.Tags, " "))
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// PageContent is the extracted content of a product's web page.
type PageContent struct {
	// Name is the resolved page title.
	Name string

	// Description is the resolved page description.
	Description string

	// FullText is the cleaned main body text, truncated.
	FullText string

	// Tags are heuristically derived candidate tags.
	Tags []string

	// CreatorHandle is the page's creator-identity meta tag value
	// (twitter:creator), if present.
	CreatorHandle string

	// SiteHandle is the page's site-identity meta tag value
	// (twitter:site), if present.
	SiteHandle string

	// URL is the fetched URL.
	URL string
}

// PricingInfo reports whether pricing-like markup was found on a product's
// site. Informational only.
type PricingInfo struct {
	// Found indicates pricing-like markup was detected.
	Found bool

	// Snippet is a short excerpt of the pricing markup text.
	Snippet string
}

// ChangeReport records per-field differences between a product before and
// after a re-index. Tag comparison is order-insensitive set equality.
type ChangeReport struct {
	Name        bool `json:"name"`
	Description bool `json:"description"`
	Tags        bool `json:"tags"`
	Owner       bool `json:"owner"`
}

// Any reports whether any field changed.
func (c ChangeReport) Any() bool {
	return c.Name || c.Description || c.Tags || c.Owner
}

// NormalizeURL validates a raw URL and reduces it to its canonical
// root-domain form: lowercase host, http/https scheme, no path, no query.
// The normalized form carries no trailing slash.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: only http and https URLs are allowed", ErrInvalidURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	if u.Path != "" && u.Path != "/" {
		return "", fmt.Errorf("%w: only root domain URLs are allowed, remove the path", ErrInvalidURL)
	}
	if u.RawQuery != "" {
		return "", fmt.Errorf("%w: only root domain URLs are allowed, remove query parameters", ErrInvalidURL)
	}
	return u.Scheme + "://" + strings.ToLower(u.Host), nil
}

// NormalizeTags lowercases and trims tags, drops empties and duplicates.
// Order of first occurrence is preserved.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// EqualTagSets reports whether two tag lists contain the same tags,
// ignoring order and duplicates.
func EqualTagSets(a, b []string) bool {
	na, nb := NormalizeTags(a), NormalizeTags(b)
	if len(na) != len(nb) {
		return false
	}
	sort.Strings(na)
	sort.Strings(nb)
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}

// NormalizeHandle lowercases an identity handle and strips a leading '@'.
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(handle)), "@")
}
