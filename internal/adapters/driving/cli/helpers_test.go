package cli

import (
	"context"
	"time"

	"github.com/makerlens/makerlens-cli/internal/adapters/driven/storage/memory"
	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driving"
	"github.com/makerlens/makerlens-cli/internal/core/services"
)

// Fake services for command tests. Each returns canned data so tests can
// assert on rendered output without touching the network or disk.

type fakeIndexingService struct {
	indexErr   error
	reindexErr error
	products   map[string]*domain.Product
}

func newFakeIndexing() *fakeIndexingService {
	return &fakeIndexingService{
		products: map[string]*domain.Product{
			"prod-1": {
				ID:          "prod-1",
				Name:        "Test Product 1",
				Description: "A product used in command tests",
				Tags:        []string{"collaboration"},
				URL:         "https://example.com",
				CreatedAt:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}

func (f *fakeIndexingService) Index(_ context.Context, req driving.IndexRequest) (*domain.Product, error) {
	if f.indexErr != nil {
		return nil, f.indexErr
	}
	return &domain.Product{ID: "prod-new", Name: "Indexed Product", URL: req.URL}, nil
}

func (f *fakeIndexingService) Reindex(_ context.Context, id string) (*driving.ReindexResult, error) {
	if f.reindexErr != nil {
		return nil, f.reindexErr
	}
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &driving.ReindexResult{
		Product: p,
		Changes: domain.ChangeReport{Description: true},
	}, nil
}

func (f *fakeIndexingService) Update(_ context.Context, id string, _ driving.UpdateRequest) error {
	if _, ok := f.products[id]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (f *fakeIndexingService) Delete(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeIndexingService) Claim(_ context.Context, url, handle string) (*domain.Product, error) {
	return &domain.Product{ID: "prod-1", Name: "Test Product 1", URL: url, OwnerHandle: domain.NormalizeHandle(handle)}, nil
}

func (f *fakeIndexingService) BulkIndex(_ context.Context, reqs []driving.IndexRequest) (*driving.BulkIndexResult, error) {
	result := &driving.BulkIndexResult{}
	for _, req := range reqs {
		if req.URL == "not-a-url" {
			result.Failed = append(result.Failed, driving.BulkItemError{URL: req.URL, Error: "invalid URL"})
			continue
		}
		result.Indexed = append(result.Indexed, domain.Product{ID: "prod-bulk", URL: req.URL})
	}
	return result, nil
}

func (f *fakeIndexingService) Get(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type fakeSearchService struct {
	searchErr error
}

func (f *fakeSearchService) Search(_ context.Context, query string, _ domain.SearchOptions) (*domain.SearchResponse, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &domain.SearchResponse{
		Query: query,
		Total: 1,
		Results: []domain.SearchResult{
			{
				Product: domain.Product{ID: "prod-1", Name: "Test Product 1", URL: "https://example.com"},
				Score:   0.91,
			},
		},
	}, nil
}

func (f *fakeSearchService) FindSimilar(_ context.Context, id string, _ int) (*domain.SearchResponse, error) {
	if id != "prod-1" {
		return nil, domain.ErrNotFound
	}
	return &domain.SearchResponse{
		Total: 1,
		Results: []domain.SearchResult{
			{
				Product: domain.Product{ID: "prod-2", Name: "Similar Product", URL: "https://similar.example.com"},
				Score:   0.7,
			},
		},
	}, nil
}

type fakePageExtractor struct {
	pricing *domain.PricingInfo
}

func (f *fakePageExtractor) Extract(_ context.Context, url string) (*domain.PageContent, error) {
	return &domain.PageContent{Name: "Test Product 1", URL: url}, nil
}

func (f *fakePageExtractor) ProbePricing(_ context.Context, _ string) (*domain.PricingInfo, error) {
	if f.pricing != nil {
		return f.pricing, nil
	}
	return &domain.PricingInfo{Found: true, Snippet: "$12/month"}, nil
}

type memConfig struct {
	values map[string]any
}

func newMemConfig() *memConfig { return &memConfig{values: map[string]any{}} }

func (c *memConfig) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *memConfig) GetString(key string) string {
	if v, ok := c.values[key].(string); ok {
		return v
	}
	return ""
}

func (c *memConfig) GetInt(key string) int {
	switch v := c.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (c *memConfig) GetFloat64(key string) float64 {
	switch v := c.values[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (c *memConfig) GetBool(key string) bool {
	if v, ok := c.values[key].(bool); ok {
		return v
	}
	return false
}

func (c *memConfig) GetStringSlice(key string) []string {
	if v, ok := c.values[key].([]string); ok {
		return v
	}
	return nil
}

func (c *memConfig) Set(key string, value any) error {
	c.values[key] = value
	return nil
}

func (c *memConfig) Save() error { return nil }
func (c *memConfig) Load() error { return nil }
func (c *memConfig) Path() string {
	return "/tmp/makerlens-test-config.toml"
}

// setupTestServices wires fake services into the package-level command
// dependencies and returns a cleanup function restoring the originals.
func setupTestServices() func() {
	oldIndexing := indexingService
	oldSearch := searchService
	oldSettings := settingsService
	oldExtractor := pageExtractor
	oldStore := productStore
	oldConfig := configStore

	cfg := newMemConfig()
	fakeIdx := newFakeIndexing()
	store := memory.NewProductStore()
	for _, p := range fakeIdx.products {
		_ = store.Save(context.Background(), p)
	}

	indexingService = fakeIdx
	searchService = &fakeSearchService{}
	settingsService = services.NewSettingsService(cfg)
	pageExtractor = &fakePageExtractor{}
	productStore = store
	configStore = cfg

	return func() {
		indexingService = oldIndexing
		searchService = oldSearch
		settingsService = oldSettings
		pageExtractor = oldExtractor
		productStore = oldStore
		configStore = oldConfig
	}
}
