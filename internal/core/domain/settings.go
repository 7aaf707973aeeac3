package domain

// SearchSettings tunes the hybrid search engine.
type SearchSettings struct {
	// VectorWeight scales the vector-similarity branch.
	VectorWeight float64

	// LexicalWeight scales the full-text branch.
	LexicalWeight float64

	// MinScore is the minimum blended score a result must reach.
	// A precision/recall trade-off, tuned empirically, not a
	// correctness requirement.
	MinScore float64
}

// TagSettings tunes the tag expansion engine.
type TagSettings struct {
	// SimilarityThreshold is the minimum cosine similarity for a
	// reference tag to count as an expansion.
	SimilarityThreshold float64

	// MaxExpansionsPerTag caps expansions added per input tag.
	MaxExpansionsPerTag int

	// MaxTags caps a product's tag count after merge and expansion.
	MaxTags int
}

// IndexingSettings tunes the indexing orchestrator.
type IndexingSettings struct {
	// ReindexCooldownHours is the rolling window during which a product
	// may not be re-indexed again, measured from UpdatedAt.
	ReindexCooldownHours int
}

// Supported embedding providers.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderOllama      = "ollama"
)

// EmbeddingSettings selects and configures the embedding provider.
type EmbeddingSettings struct {
	// Provider is one of the supported embedding providers.
	Provider string

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider endpoint. Empty uses the default.
	BaseURL string

	// APIKey authenticates against the provider.
	APIKey string
}

// AppSettings bundles all tunables.
type AppSettings struct {
	Search    SearchSettings
	Tags      TagSettings
	Indexing  IndexingSettings
	Embedding EmbeddingSettings
}

// DefaultAppSettings returns the built-in defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchSettings{
			VectorWeight:  0.7,
			LexicalWeight: 1.2,
			MinScore:      0.25,
		},
		Tags: TagSettings{
			SimilarityThreshold: 0.65,
			MaxExpansionsPerTag: 3,
			MaxTags:             MaxTags,
		},
		Indexing: IndexingSettings{
			ReindexCooldownHours: 24,
		},
		Embedding: EmbeddingSettings{
			Provider: ProviderHuggingFace,
			Model:    "sentence-transformers/all-MiniLM-L6-v2",
		},
	}
}
