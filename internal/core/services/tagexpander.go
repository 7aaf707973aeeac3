package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driven"
	"github.com/makerlens/makerlens-cli/internal/logger"
)

// Default tag expansion tuning.
const (
	// DefaultSimilarityThreshold is the minimum cosine similarity for a
	// reference tag to count as an expansion.
	DefaultSimilarityThreshold = 0.65

	// DefaultMaxExpansionsPerTag caps how many reference tags a single
	// input tag may add.
	DefaultMaxExpansionsPerTag = 3

	// vocabularyBatchConcurrency bounds concurrent embedding calls while
	// computing the reference vocabulary, to respect upstream rate limits.
	vocabularyBatchConcurrency = 10
)

// TagExpander enriches raw tags with semantically similar entries from the
// canonical reference vocabulary. Raw tags from scraping or user input are
// noisy; mapping them onto a small canonical set keeps search and category
// filtering consistent when two products describe the same concept with
// different words.
type TagExpander struct {
	embedder driven.EmbeddingService

	// threshold and maxExpansions are fixed at construction.
	threshold     float64
	maxExpansions int

	// Reference embeddings are computed once per process on first use.
	// The singleflight group makes concurrent first callers await the
	// same in-flight batch instead of triggering duplicate computation.
	initGroup singleflight.Group
	mu        sync.RWMutex
	refVecs   map[string][]float32
}

// TagExpanderConfig tunes the expansion behaviour. Zero values select
// the defaults.
type TagExpanderConfig struct {
	SimilarityThreshold float64
	MaxExpansionsPerTag int
}

// NewTagExpander creates a tag expander over the given embedding service.
func NewTagExpander(embedder driven.EmbeddingService, cfg TagExpanderConfig) *TagExpander {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.MaxExpansionsPerTag <= 0 {
		cfg.MaxExpansionsPerTag = DefaultMaxExpansionsPerTag
	}
	return &TagExpander{
		embedder:      embedder,
		threshold:     cfg.SimilarityThreshold,
		maxExpansions: cfg.MaxExpansionsPerTag,
	}
}

// Expand normalizes the input tags and unions them with up to
// maxExpansions reference tags per input tag at or above the similarity
// threshold. The result is deduplicated; the caller caps the final count.
//
// If the embedding provider is unavailable the normalized input is
// returned unexpanded; expansion must never block indexing.
func (e *TagExpander) Expand(ctx context.Context, tags []string) []string {
	normalized := domain.NormalizeTags(tags)
	if len(normalized) == 0 {
		return normalized
	}
	if e.embedder == nil {
		return normalized
	}

	refVecs, err := e.referenceEmbeddings(ctx)
	if err != nil {
		logger.Warn("Tag expansion degraded, returning tags unexpanded: %v", err)
		return normalized
	}

	expanded := make([]string, 0, len(normalized)+len(normalized)*e.maxExpansions)
	seen := make(map[string]struct{}, cap(expanded))
	add := func(tag string) {
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			expanded = append(expanded, tag)
		}
	}
	for _, tag := range normalized {
		add(tag)
	}

	for _, tag := range normalized {
		// Already canonical, nothing to expand.
		if _, ok := refVecs[tag]; ok {
			logger.Debug("Tag %q is already canonical, skipping expansion", tag)
			continue
		}

		vec, err := e.embedder.Embed(ctx, tag)
		if err != nil {
			logger.Warn("Embedding %q failed, skipping its expansion: %v", tag, err)
			continue
		}

		for _, match := range e.topMatches(vec, refVecs) {
			logger.Debug("Expansion for %q: %q (similarity %.3f)", tag, match.tag, match.similarity)
			add(match.tag)
		}
	}

	logger.Debug("Tag expansion: %d in, %d out", len(normalized), len(expanded))
	return expanded
}

// refMatch pairs a reference tag with its similarity to an input tag.
type refMatch struct {
	tag        string
	similarity float64
}

// topMatches returns the reference tags at or above the threshold,
// best first, capped at maxExpansions.
func (e *TagExpander) topMatches(vec []float32, refVecs map[string][]float32) []refMatch {
	matches := make([]refMatch, 0, 8)
	for refTag, refVec := range refVecs {
		sim := CosineSimilarity(vec, refVec)
		if sim >= e.threshold {
			matches = append(matches, refMatch{tag: refTag, similarity: sim})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].similarity != matches[j].similarity {
			return matches[i].similarity > matches[j].similarity
		}
		return matches[i].tag < matches[j].tag
	})
	if len(matches) > e.maxExpansions {
		matches = matches[:e.maxExpansions]
	}
	return matches
}

// referenceEmbeddings returns the cached vocabulary embeddings, computing
// them on first use. Exactly one batch computation runs per process;
// concurrent callers share its result.
func (e *TagExpander) referenceEmbeddings(ctx context.Context) (map[string][]float32, error) {
	e.mu.RLock()
	cached := e.refVecs
	e.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := e.initGroup.Do("reference-vocabulary", func() (any, error) {
		// Re-check: a previous flight may have completed while we queued.
		e.mu.RLock()
		done := e.refVecs
		e.mu.RUnlock()
		if done != nil {
			return done, nil
		}

		logger.Info("Computing reference tag embeddings (one-time setup, %d tags)", len(referenceTags))
		vecs, err := e.computeReferenceEmbeddings(ctx)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		e.refVecs = vecs
		e.mu.Unlock()
		logger.Info("Reference tag embeddings computed and cached")
		return vecs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string][]float32), nil
}

// computeReferenceEmbeddings embeds the whole vocabulary with bounded
// concurrency.
func (e *TagExpander) computeReferenceEmbeddings(ctx context.Context) (map[string][]float32, error) {
	vecs := make([][]float32, len(referenceTags))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(vocabularyBatchConcurrency)
	for i, tag := range referenceTags {
		i, tag := i, tag
		g.Go(func() error {
			vec, err := e.embedder.Embed(gctx, tag)
			if err != nil {
				return fmt.Errorf("embed reference tag %q: %w", tag, err)
			}
			vecs[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]float32, len(referenceTags))
	for i, tag := range referenceTags {
		out[tag] = vecs[i]
	}
	return out, nil
}

// CosineSimilarity computes dot(a,b) / (|a|*|b|). The similarity of a
// zero vector to anything is 0, and mismatched lengths score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
