package services

import (
	"context"
	"sync"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// stubEmbedder implements driven.EmbeddingService with deterministic
// vectors. Each distinct text gets its own one-hot vector, so identical
// texts have similarity 1 and unrelated texts 0. The synonyms map routes
// different texts onto the same vector to simulate semantic closeness.
type stubEmbedder struct {
	mu       sync.Mutex
	synonyms map[string]string
	index    map[string]int
	calls    map[string]int
	embedErr error
}

const stubDims = 256

var _ driven.EmbeddingService = (*stubEmbedder)(nil)

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{
		synonyms: make(map[string]string),
		index:    make(map[string]int),
		calls:    make(map[string]int),
	}
}

func (m *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}

	m.calls[text]++

	key := text
	if s, ok := m.synonyms[text]; ok {
		key = s
	}
	i, ok := m.index[key]
	if !ok {
		i = len(m.index)
		m.index[key] = i
	}

	vec := make([]float32, stubDims)
	vec[i%stubDims] = 1
	return vec, nil
}

func (m *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = vec
	}
	return result, nil
}

func (m *stubEmbedder) Dimensions() int { return stubDims }

func (m *stubEmbedder) ModelName() string { return "stub-embed" }

func (m *stubEmbedder) Ping(_ context.Context) error { return nil }

func (m *stubEmbedder) Close() error { return nil }

// callCount returns how often a given text was embedded.
func (m *stubEmbedder) callCount(text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[text]
}

// vectorFor returns the vector Embed would produce for the text.
func (m *stubEmbedder) vectorFor(text string) []float32 {
	vec, _ := m.Embed(context.Background(), text)
	return vec
}

// stubExtractor implements driven.PageExtractor from canned pages.
type stubExtractor struct {
	mu sync.Mutex

	// page serves every URL unless pages has a specific entry.
	page       *domain.PageContent
	pages      map[string]*domain.PageContent
	extractErr error
	pricing    *domain.PricingInfo
	calls      int
}

var _ driven.PageExtractor = (*stubExtractor)(nil)

func (m *stubExtractor) Extract(_ context.Context, url string) (*domain.PageContent, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.extractErr != nil {
		return nil, m.extractErr
	}
	if p, ok := m.pages[url]; ok {
		return p, nil
	}
	if m.page != nil {
		return m.page, nil
	}
	return &domain.PageContent{Name: "Untitled", URL: url}, nil
}

func (m *stubExtractor) ProbePricing(_ context.Context, _ string) (*domain.PricingInfo, error) {
	if m.pricing != nil {
		return m.pricing, nil
	}
	return &domain.PricingInfo{Found: false}, nil
}

func (m *stubExtractor) extractCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
