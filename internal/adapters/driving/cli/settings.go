package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change configuration",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets one configuration key. Known keys:

  search.vector_weight             weight of the vector branch
  search.lexical_weight            weight of the lexical branch
  search.min_score                 minimum blended score for a result
  tags.similarity_threshold        minimum similarity for tag expansion
  tags.max_expansions              expansions added per input tag
  tags.max_tags                    maximum tags stored per product
  indexing.reindex_cooldown_hours  hours between re-indexes of a product
  embedding.provider               huggingface, openai or ollama
  embedding.model                  provider model name
  embedding.base_url               provider endpoint override
  embedding.api_key                provider API key`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	s := settingsService.Get()

	cmd.Println("Search")
	cmd.Printf("  vector weight:   %.2f\n", s.Search.VectorWeight)
	cmd.Printf("  lexical weight:  %.2f\n", s.Search.LexicalWeight)
	cmd.Printf("  min score:       %.2f\n", s.Search.MinScore)
	cmd.Println("Tags")
	cmd.Printf("  similarity threshold:  %.2f\n", s.Tags.SimilarityThreshold)
	cmd.Printf("  max expansions:        %d\n", s.Tags.MaxExpansionsPerTag)
	cmd.Printf("  max tags:              %d\n", s.Tags.MaxTags)
	cmd.Println("Indexing")
	cmd.Printf("  reindex cooldown:  %dh\n", s.Indexing.ReindexCooldownHours)
	cmd.Println("Embedding")
	cmd.Printf("  provider:  %s\n", s.Embedding.Provider)
	cmd.Printf("  model:     %s\n", s.Embedding.Model)
	if s.Embedding.BaseURL != "" {
		cmd.Printf("  base url:  %s\n", s.Embedding.BaseURL)
	}
	if s.Embedding.APIKey != "" {
		cmd.Println("  api key:   (set)")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	// Store numbers as numbers so typed reads round-trip.
	var value any = raw
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		value = i
	} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
		value = f
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := configStore.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)
	return nil
}
