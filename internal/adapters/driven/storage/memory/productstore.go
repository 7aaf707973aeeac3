// Package memory provides an in-memory ProductStore. It backs tests and
// throwaway runs where a SQLite file is unwanted; data does not survive
// the process.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driven"
)

// ProductStore keeps products in a mutex-guarded map.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

var _ driven.ProductStore = (*ProductStore)(nil)

// NewProductStore creates an empty in-memory store.
func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]domain.Product)}
}

// Save stores or replaces a product.
func (s *ProductStore) Save(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = cloneProduct(*p)
	return nil
}

// Get retrieves a product by ID.
func (s *ProductStore) Get(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneProduct(p)
	return &out, nil
}

// Delete removes a product by ID.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// FindByURL matches the stored URL with and without a trailing slash.
func (s *ProductStore) FindByURL(ctx context.Context, url string) (*domain.Product, error) {
	trimmed := strings.TrimSuffix(url, "/")
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if strings.TrimSuffix(p.URL, "/") == trimmed {
			out := cloneProduct(p)
			return &out, nil
		}
	}
	return nil, nil
}

// List returns all products in no particular order.
func (s *ProductStore) List(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

// Count returns the number of stored products.
func (s *ProductStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

// SearchLexical scores products by weighted token overlap with the query.
// A rough stand-in for BM25: description matches weigh most, then tags,
// then name, mirroring the SQLite backend's column weights.
func (s *ProductStore) SearchLexical(ctx context.Context, query string, limit int) ([]driven.LexicalHit, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]driven.LexicalHit, 0)
	for _, p := range s.products {
		name := tokenize(p.Name)
		desc := tokenize(p.Description)
		tags := tokenize(strings.Join(p.Tags, " "))

		var score float64
		for _, term := range terms {
			if containsPrefix(desc, term) {
				score += 2.5
			}
			if containsPrefix(tags, term) {
				score += 1.5
			}
			if containsPrefix(name, term) {
				score += 1.2
			}
		}
		if score > 0 {
			hits = append(hits, driven.LexicalHit{ProductID: p.ID, Score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ProductID < hits[j].ProductID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// SearchVector ranks products by cosine similarity to the query vector.
func (s *ProductStore) SearchVector(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]driven.VectorHit, 0)
	for _, p := range s.products {
		if len(p.Embedding) == 0 {
			continue
		}
		sim := cosine(query, p.Embedding)
		hits = append(hits, driven.VectorHit{ProductID: p.ID, Similarity: sim})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ProductID < hits[j].ProductID
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close is a no-op for the in-memory store.
func (s *ProductStore) Close() error {
	return nil
}

func cloneProduct(p domain.Product) domain.Product {
	p.Tags = append([]string(nil), p.Tags...)
	p.Categories = append([]string(nil), p.Categories...)
	p.Embedding = append([]float32(nil), p.Embedding...)
	return p
}

// tokenize splits on non-alphanumeric runes, mirroring the SQLite
// backend's unicode61 tokenizer so hyphenated tags match the same way.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

// containsPrefix reports whether any token starts with the term, which
// approximates the SQLite backend's prefix matching.
func containsPrefix(tokens []string, term string) bool {
	for _, tok := range tokens {
		if strings.HasPrefix(tok, term) {
			return true
		}
	}
	return false
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
