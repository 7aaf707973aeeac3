package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driven"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driving"
	"github.com/makerlens/makerlens-cli/internal/logger"
)

// Ensure IndexingService implements the interface.
var _ driving.IndexingService = (*IndexingService)(nil)

// DefaultReindexCooldown is the rolling window during which a product may
// not be re-indexed again, measured from UpdatedAt.
const DefaultReindexCooldown = 24 * time.Hour

// IndexingService orchestrates the product lifecycle: it turns URLs into
// normalized, tagged, embedded documents and keeps them fresh.
type IndexingService struct {
	store     driven.ProductStore
	extractor driven.PageExtractor
	embedder  driven.EmbeddingService
	expander  *TagExpander

	maxTags         int
	reindexCooldown time.Duration

	// now is swappable for cooldown tests.
	now func() time.Time
}

// IndexingConfig tunes the orchestrator. Zero values select the defaults.
type IndexingConfig struct {
	// MaxTags caps a product's tag count after merge and expansion.
	MaxTags int

	// ReindexCooldown is the re-index rate-limit window. Negative
	// disables the limiter (tests only).
	ReindexCooldown time.Duration
}

// NewIndexingService creates a new indexing orchestrator.
func NewIndexingService(
	store driven.ProductStore,
	extractor driven.PageExtractor,
	embedder driven.EmbeddingService,
	expander *TagExpander,
	cfg IndexingConfig,
) *IndexingService {
	if cfg.MaxTags <= 0 {
		cfg.MaxTags = domain.MaxTags
	}
	if cfg.ReindexCooldown == 0 {
		cfg.ReindexCooldown = DefaultReindexCooldown
	}
	if cfg.ReindexCooldown < 0 {
		cfg.ReindexCooldown = 0
	}
	return &IndexingService{
		store:           store,
		extractor:       extractor,
		embedder:        embedder,
		expander:        expander,
		maxTags:         cfg.MaxTags,
		reindexCooldown: cfg.ReindexCooldown,
		now:             time.Now,
	}
}

// Index creates a product from a URL.
//
// Pipeline: validate/normalize URL → duplicate check → extract content
// (skipped when manual name and description are both supplied) → merge and
// expand tags → cap → build document → embed → persist. Extraction and
// embedding failures abort the whole operation; a product is never
// persisted with a missing embedding.
func (s *IndexingService) Index(ctx context.Context, req driving.IndexRequest) (*domain.Product, error) {
	logger.Section("Index Product")
	logger.Debug("URL: %q, indexed by: %q", req.URL, req.IndexedBy)

	if req.URL == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrValidation)
	}
	if (req.Name == "") != (req.Description == "") {
		return nil, fmt.Errorf("%w: manual data must include both name and description", domain.ErrValidation)
	}

	url, err := domain.NormalizeURL(req.URL)
	if err != nil {
		return nil, err
	}
	logger.Debug("Normalized URL: %q", url)

	// Duplicate check before any network work. A store failure here is
	// surfaced as-is rather than being mistaken for "no duplicate".
	existing, err := s.store.FindByURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateURL, url)
	}

	manual := req.Name != "" && req.Description != ""
	owner := domain.NormalizeHandle(req.IndexedBy)

	var page *domain.PageContent
	if !manual || owner != "" {
		// Identified callers need the page fetched even in manual mode:
		// ownership is verified against the live creator meta tag.
		page, err = s.extractor.Extract(ctx, url)
		if err != nil {
			return nil, err
		}
	}

	if owner != "" {
		if err := verifyOwnership(page, owner); err != nil {
			return nil, err
		}
	}

	name, description := req.Name, req.Description
	var autoTags []string
	if !manual {
		name = page.Name
		description = page.Description
		if description == "" {
			description = page.FullText
		}
		autoTags = page.Tags
		logger.Debug("Extracted name %q, %d auto tags", name, len(autoTags))
	}

	tags := s.mergeAndExpandTags(ctx, autoTags, req.Tags)

	now := s.now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Tags:        tags,
		Categories:  domain.FilterCategories(req.Categories),
		URL:         url,
		OwnerHandle: owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.embedProduct(ctx, product); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	logger.Info("Indexed product %s (%s)", product.ID, product.URL)
	return stripEmbedding(product), nil
}

// Reindex refreshes a product from its source page under the same ID,
// preserving CreatedAt. Previously stored manual data and tags are
// discarded in favour of freshly scraped content.
func (s *IndexingService) Reindex(ctx context.Context, id string) (*driving.ReindexResult, error) {
	logger.Section("Re-index Product")

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Rate limit is evaluated before any network fetch to keep the
	// failure path free of side effects.
	if err := s.checkReindexCooldown(current); err != nil {
		return nil, err
	}

	page, err := s.extractor.Extract(ctx, current.URL)
	if err != nil {
		return nil, err
	}

	if current.OwnerHandle != "" {
		if err := verifyOwnership(page, current.OwnerHandle); err != nil {
			return nil, err
		}
	}

	description := page.Description
	if description == "" {
		description = page.FullText
	}

	refreshed := &domain.Product{
		ID:          current.ID,
		Name:        page.Name,
		Description: description,
		Tags:        s.mergeAndExpandTags(ctx, page.Tags, nil),
		Categories:  current.Categories,
		URL:         current.URL,
		OwnerHandle: current.OwnerHandle,
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   s.now().UTC(),
	}

	if err := s.embedProduct(ctx, refreshed); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, refreshed); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	freshOwner := domain.NormalizeHandle(page.CreatorHandle)
	changes := domain.ChangeReport{
		Name:        refreshed.Name != current.Name,
		Description: refreshed.Description != current.Description,
		Tags:        !domain.EqualTagSets(refreshed.Tags, current.Tags),
		Owner:       freshOwner != "" && freshOwner != current.OwnerHandle,
	}

	logger.Info("Re-indexed product %s, changes: %+v", id, changes)
	return &driving.ReindexResult{
		Product: stripEmbedding(refreshed),
		Changes: changes,
	}, nil
}

// Update applies a partial field edit. Tags are re-expanded before the
// merge; any change to name, description or tags recomputes the embedding
// from the merged document.
func (s *IndexingService) Update(ctx context.Context, id string, req driving.UpdateRequest) error {
	logger.Section("Update Product")

	contentChanged := req.Name != nil || req.Description != nil || req.Tags != nil
	if !contentChanged && req.Categories == nil {
		return fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	merged := *current
	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.Tags != nil {
		merged.Tags = capTags(s.expander.Expand(ctx, req.Tags), s.maxTags)
	}
	if req.Categories != nil {
		merged.Categories = domain.FilterCategories(req.Categories)
	}
	merged.UpdatedAt = s.now().UTC()

	if contentChanged {
		if err := s.embedProduct(ctx, &merged); err != nil {
			return err
		}
	}

	if err := s.store.Save(ctx, &merged); err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	logger.Info("Updated product %s", id)
	return nil
}

// Delete removes a product. Deleting an unknown ID reports
// domain.ErrNotFound rather than succeeding silently.
func (s *IndexingService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Deleted product %s", id)
	return nil
}

// Claim verifies ownership of an already-indexed product against the
// page's creator-identity meta tag and records the owner handle. A fresh
// name or description found during verification is taken as well.
func (s *IndexingService) Claim(ctx context.Context, url, handle string) (*domain.Product, error) {
	logger.Section("Claim Product")

	owner := domain.NormalizeHandle(handle)
	if owner == "" {
		return nil, fmt.Errorf("%w: identity handle is required", domain.ErrValidation)
	}

	normalized, err := domain.NormalizeURL(url)
	if err != nil {
		return nil, err
	}

	product, err := s.store.FindByURL(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("find by url: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s is not indexed yet", domain.ErrNotFound, normalized)
	}

	page, err := s.extractor.Extract(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if err := verifyOwnership(page, owner); err != nil {
		return nil, err
	}

	product.OwnerHandle = owner
	if page.Name != "" {
		product.Name = page.Name
	}
	if page.Description != "" {
		product.Description = page.Description
	}
	product.UpdatedAt = s.now().UTC()

	if err := s.embedProduct(ctx, product); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	logger.Info("Product %s claimed by @%s", product.ID, owner)
	return stripEmbedding(product), nil
}

// BulkIndex indexes multiple products independently, continuing past
// individual failures.
func (s *IndexingService) BulkIndex(ctx context.Context, reqs []driving.IndexRequest) (*driving.BulkIndexResult, error) {
	result := &driving.BulkIndexResult{}
	for _, req := range reqs {
		product, err := s.Index(ctx, req)
		if err != nil {
			result.Failed = append(result.Failed, driving.BulkItemError{
				URL:   req.URL,
				Error: err.Error(),
			})
			continue
		}
		result.Indexed = append(result.Indexed, *product)
	}
	logger.Info("Bulk index: %d indexed, %d failed", len(result.Indexed), len(result.Failed))
	return result, nil
}

// Get retrieves a product by ID with its embedding stripped.
func (s *IndexingService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return stripEmbedding(product), nil
}

// mergeAndExpandTags is the pure merge→expand→cap pipeline: union of
// extracted and caller-supplied tags, expanded against the reference
// vocabulary, capped at the configured maximum.
func (s *IndexingService) mergeAndExpandTags(ctx context.Context, autoTags, manualTags []string) []string {
	merged := domain.NormalizeTags(append(append([]string{}, autoTags...), manualTags...))
	return capTags(s.expander.Expand(ctx, merged), s.maxTags)
}

// embedProduct computes the product's embedding from its canonical
// searchable text. Failures surface as retryable ErrEmbeddingUnavailable.
func (s *IndexingService) embedProduct(ctx context.Context, p *domain.Product) error {
	text := p.SearchableText()
	logger.Debug("Embedding searchable text (%d chars)", len(text))
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed product: %w", err)
	}
	p.Embedding = vec
	return nil
}

// checkReindexCooldown enforces the rolling re-index window anchored at
// UpdatedAt. The limiter is purely time based.
func (s *IndexingService) checkReindexCooldown(p *domain.Product) error {
	if s.reindexCooldown <= 0 || p.UpdatedAt.IsZero() {
		return nil
	}
	elapsed := s.now().Sub(p.UpdatedAt)
	if elapsed >= s.reindexCooldown {
		return nil
	}
	remaining := s.reindexCooldown - elapsed
	hours := int(math.Ceil(remaining.Hours()))
	return &domain.RateLimitError{HoursRemaining: hours}
}

// verifyOwnership requires exact equality between the page's lowercased
// creator-identity meta tag and the claimed handle.
func verifyOwnership(page *domain.PageContent, handle string) error {
	found := domain.NormalizeHandle(page.CreatorHandle)
	if found == "" || found != handle {
		return &domain.OwnershipError{Handle: handle, Found: page.CreatorHandle}
	}
	return nil
}

// capTags truncates a tag list to the configured maximum.
func capTags(tags []string, maxTags int) []string {
	if len(tags) > maxTags {
		return tags[:maxTags]
	}
	return tags
}

// stripEmbedding returns a copy of the product without its embedding,
// the form returned to callers.
func stripEmbedding(p *domain.Product) *domain.Product {
	out := *p
	out.Embedding = nil
	return &out
}
