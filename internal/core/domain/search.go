package domain

// SearchMode selects which retrieval branches a search uses.
type SearchMode string

const (
	// SearchModeHybrid blends lexical and vector scoring. Default.
	SearchModeHybrid SearchMode = "hybrid"

	// SearchModeVector uses only embedding similarity.
	SearchModeVector SearchMode = "vector"

	// SearchModeLexical uses only full-text relevance.
	SearchModeLexical SearchMode = "lexical"
)

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results. Defaults to 20.
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// Tags filters results to products carrying at least one of these
	// tags. Applied as a hard post-filter, not a scoring factor.
	Tags []string

	// Mode selects the retrieval branches. Empty means hybrid.
	Mode SearchMode
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Product is the matched product, embedding stripped.
	Product Product `json:"product"`

	// Score is the blended relevance score.
	Score float64 `json:"score"`
}

// SearchResponse is the full result of a search.
type SearchResponse struct {
	// Query is the original query text.
	Query string `json:"query"`

	// Total is the number of results above the score threshold, before
	// pagination. Branches fetch a bounded window (roughly twice the
	// requested page past the offset), so on large result sets this is
	// a lower bound rather than an exact corpus-wide count.
	Total int `json:"total"`

	// Results is the paginated result page.
	Results []SearchResult `json:"results"`

	// TookMS is the elapsed search time in milliseconds.
	TookMS int64 `json:"tookMs"`
}
