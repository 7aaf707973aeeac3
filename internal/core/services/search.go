package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driven"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driving"
	"github.com/makerlens/makerlens-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Default search tuning.
const (
	// DefaultVectorWeight scales the vector-similarity branch.
	DefaultVectorWeight = 0.7

	// DefaultLexicalWeight scales the full-text branch. Lexical scores
	// are normalized to [0,1] before weighting.
	DefaultLexicalWeight = 1.2

	// DefaultMinScore drops results below this blended score. Tuned to
	// suppress noise while preserving recall.
	DefaultMinScore = 0.25

	// defaultLimit is used when the caller supplies no limit.
	defaultLimit = 20
)

// scoredHit holds an intermediate result before hydration.
type scoredHit struct {
	productID string
	score     float64
}

// SearchService blends lexical and vector retrieval over the product store.
type SearchService struct {
	store    driven.ProductStore
	embedder driven.EmbeddingService

	vectorWeight  float64
	lexicalWeight float64
	minScore      float64
}

// SearchConfig tunes the blending. Zero values select the defaults.
type SearchConfig struct {
	VectorWeight  float64
	LexicalWeight float64
	MinScore      float64
}

// NewSearchService creates a new hybrid search service.
func NewSearchService(store driven.ProductStore, embedder driven.EmbeddingService, cfg SearchConfig) *SearchService {
	if cfg.VectorWeight <= 0 {
		cfg.VectorWeight = DefaultVectorWeight
	}
	if cfg.LexicalWeight <= 0 {
		cfg.LexicalWeight = DefaultLexicalWeight
	}
	if cfg.MinScore <= 0 {
		cfg.MinScore = DefaultMinScore
	}
	return &SearchService{
		store:         store,
		embedder:      embedder,
		vectorWeight:  cfg.VectorWeight,
		lexicalWeight: cfg.LexicalWeight,
		minScore:      cfg.MinScore,
	}
}

// Search performs a blended lexical+vector search. A result must match at
// least one branch; a supplied tag filter is applied as a hard post-filter,
// and everything below the minimum blended score is discarded.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	start := time.Now()
	logger.Section("Search Execution")
	logger.Debug("Query: %q, mode: %s", query, opts.Mode)

	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	// Fetch more than a page internally to survive filtering.
	internalLimit := (opts.Offset + limit) * 2
	if len(opts.Tags) > 0 {
		internalLimit = (opts.Offset + limit) * 3
	}

	var hits []scoredHit
	var err error
	switch opts.Mode {
	case domain.SearchModeVector:
		hits, err = s.vectorBranch(ctx, query, internalLimit)
	case domain.SearchModeLexical:
		hits, err = s.lexicalBranch(ctx, query, internalLimit)
	default:
		hits, err = s.hybridBranches(ctx, query, internalLimit)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("Raw hits: %d", len(hits))

	results, err := s.hydrate(ctx, hits, opts.Tags)
	if err != nil {
		return nil, err
	}
	logger.Debug("After hydration and filters: %d", len(results))

	total := len(results)
	results = paginate(results, opts.Offset, limit)

	return &domain.SearchResponse{
		Query:   query,
		Total:   total,
		Results: results,
		TookMS:  time.Since(start).Milliseconds(),
	}, nil
}

// FindSimilar issues a vector-only query seeded with the product's stored
// embedding, excluding the product itself from the results.
func (s *SearchService) FindSimilar(ctx context.Context, id string, limit int) (*domain.SearchResponse, error) {
	start := time.Now()
	logger.Section("Find Similar")

	if limit <= 0 {
		limit = 10
	}

	source, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(source.Embedding) == 0 {
		return nil, fmt.Errorf("%w: product %s has no embedding", domain.ErrValidation, id)
	}

	// +1 so the page survives dropping the source product.
	vhits, err := s.store.SearchVector(ctx, source.Embedding, limit+1)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	hits := make([]scoredHit, 0, len(vhits))
	for _, h := range vhits {
		if h.ProductID == id {
			continue
		}
		hits = append(hits, scoredHit{productID: h.ProductID, score: s.vectorWeight * h.Similarity})
	}

	results, err := s.hydrate(ctx, hits, nil)
	if err != nil {
		return nil, err
	}
	results = paginate(results, 0, limit)

	return &domain.SearchResponse{
		Query:   id,
		Total:   len(results),
		Results: results,
		TookMS:  time.Since(start).Milliseconds(),
	}, nil
}

// hybridBranches runs the lexical and vector branches concurrently and
// blends their scores. If one branch fails the other still serves results;
// only a double failure is an error.
func (s *SearchService) hybridBranches(ctx context.Context, query string, limit int) ([]scoredHit, error) {
	var lexHits, vecHits []scoredHit
	var lexErr, vecErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		lexHits, lexErr = s.lexicalBranch(ctx, query, limit)
	}()
	go func() {
		defer wg.Done()
		vecHits, vecErr = s.vectorBranch(ctx, query, limit)
	}()
	wg.Wait()

	if lexErr != nil && vecErr != nil {
		return nil, fmt.Errorf("hybrid search: lexical=%v, vector=%w", lexErr, vecErr)
	}
	if lexErr != nil {
		logger.Warn("Lexical branch failed, serving vector results only: %v", lexErr)
		return vecHits, nil
	}
	if vecErr != nil {
		logger.Warn("Vector branch failed, serving lexical results only: %v", vecErr)
		return lexHits, nil
	}

	return blendHits(lexHits, vecHits), nil
}

// lexicalBranch scores products by full-text relevance. Raw store scores
// are normalized to [0,1] by the branch maximum, then weighted.
func (s *SearchService) lexicalBranch(ctx context.Context, query string, limit int) ([]scoredHit, error) {
	raw, err := s.store.SearchLexical(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	logger.Debug("Lexical branch: %d hits", len(raw))

	var maxScore float64
	for _, h := range raw {
		if h.Score > maxScore {
			maxScore = h.Score
		}
	}
	hits := make([]scoredHit, len(raw))
	for i, h := range raw {
		norm := 0.0
		if maxScore > 0 {
			norm = h.Score / maxScore
		}
		hits[i] = scoredHit{productID: h.ProductID, score: s.lexicalWeight * norm}
	}
	return hits, nil
}

// vectorBranch embeds the query and scores products by cosine similarity.
func (s *SearchService) vectorBranch(ctx context.Context, query string, limit int) ([]scoredHit, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vec))

	raw, err := s.store.SearchVector(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector branch: %d hits", len(raw))

	hits := make([]scoredHit, len(raw))
	for i, h := range raw {
		hits[i] = scoredHit{productID: h.ProductID, score: s.vectorWeight * h.Similarity}
	}
	return hits, nil
}

// blendHits sums the weighted branch scores per product. A product
// appearing in only one branch keeps that branch's contribution.
func blendHits(lists ...[]scoredHit) []scoredHit {
	scores := make(map[string]float64)
	for _, list := range lists {
		for _, h := range list {
			scores[h.productID] += h.score
		}
	}

	blended := make([]scoredHit, 0, len(scores))
	for id, score := range scores {
		blended = append(blended, scoredHit{productID: id, score: score})
	}
	sort.Slice(blended, func(i, j int) bool {
		if blended[i].score != blended[j].score {
			return blended[i].score > blended[j].score
		}
		return blended[i].productID < blended[j].productID
	})
	return blended
}

// hydrate loads products for the scored hits, applies the tag post-filter
// and the minimum-score cut, and strips embeddings from the results.
func (s *SearchService) hydrate(ctx context.Context, hits []scoredHit, tagFilter []string) ([]domain.SearchResult, error) {
	filter := make(map[string]struct{}, len(tagFilter))
	for _, t := range domain.NormalizeTags(tagFilter) {
		filter[t] = struct{}{}
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.score < s.minScore {
			continue
		}

		product, err := s.store.Get(ctx, hit.productID)
		if err != nil {
			if isNotFound(err) {
				// Deleted between scoring and hydration.
				continue
			}
			return nil, fmt.Errorf("get product %s: %w", hit.productID, err)
		}

		if len(filter) > 0 && !hasAnyTag(product.Tags, filter) {
			continue
		}

		results = append(results, domain.SearchResult{
			Product: *stripEmbedding(product),
			Score:   hit.score,
		})
	}
	return results, nil
}

// hasAnyTag reports whether any of the product's tags is in the filter set.
func hasAnyTag(tags []string, filter map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := filter[t]; ok {
			return true
		}
	}
	return false
}

// paginate applies offset and limit.
func paginate(results []domain.SearchResult, offset, limit int) []domain.SearchResult {
	if offset >= len(results) {
		return []domain.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
