package services

import (
	"fmt"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyVectorWeight    = "search.vector_weight"
	keyLexicalWeight   = "search.lexical_weight"
	keyMinScore        = "search.min_score"
	keySimThreshold    = "tags.similarity_threshold"
	keyMaxExpansions   = "tags.max_expansions"
	keyMaxTags         = "tags.max_tags"
	keyReindexCooldown = "indexing.reindex_cooldown_hours"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
)

// SettingsService reads and persists application settings, falling back
// to built-in defaults for unset keys.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() domain.AppSettings {
	defaults := domain.DefaultAppSettings()
	if s.configStore == nil {
		return defaults
	}

	return domain.AppSettings{
		Search: domain.SearchSettings{
			VectorWeight:  s.getFloat(keyVectorWeight, defaults.Search.VectorWeight),
			LexicalWeight: s.getFloat(keyLexicalWeight, defaults.Search.LexicalWeight),
			MinScore:      s.getFloat(keyMinScore, defaults.Search.MinScore),
		},
		Tags: domain.TagSettings{
			SimilarityThreshold: s.getFloat(keySimThreshold, defaults.Tags.SimilarityThreshold),
			MaxExpansionsPerTag: s.getInt(keyMaxExpansions, defaults.Tags.MaxExpansionsPerTag),
			MaxTags:             s.getInt(keyMaxTags, defaults.Tags.MaxTags),
		},
		Indexing: domain.IndexingSettings{
			ReindexCooldownHours: s.getInt(keyReindexCooldown, defaults.Indexing.ReindexCooldownHours),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getString(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty means provider default
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
	}
}

// Save persists application settings.
func (s *SettingsService) Save(settings domain.AppSettings) error {
	pairs := []struct {
		key   string
		value any
	}{
		{keyVectorWeight, settings.Search.VectorWeight},
		{keyLexicalWeight, settings.Search.LexicalWeight},
		{keyMinScore, settings.Search.MinScore},
		{keySimThreshold, settings.Tags.SimilarityThreshold},
		{keyMaxExpansions, settings.Tags.MaxExpansionsPerTag},
		{keyMaxTags, settings.Tags.MaxTags},
		{keyReindexCooldown, settings.Indexing.ReindexCooldownHours},
		{keyEmbedProvider, settings.Embedding.Provider},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
	}
	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	return nil
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetFloat64(key)
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}
