// Package cli wires the cobra command tree that drives the core services.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/makerlens/makerlens-cli/internal/adapters/driven/config/file"
	"github.com/makerlens/makerlens-cli/internal/adapters/driven/embedding"
	"github.com/makerlens/makerlens-cli/internal/adapters/driven/storage/sqlite"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driven"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driving"
	"github.com/makerlens/makerlens-cli/internal/core/services"
	"github.com/makerlens/makerlens-cli/internal/extractor"
	"github.com/makerlens/makerlens-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose enables debug logging across all commands.
var verbose bool

// Services are initialised once per invocation by initServices and shared
// by all commands.
var (
	indexingService driving.IndexingService
	searchService   driving.SearchService
	settingsService *services.SettingsService
	pageExtractor   driven.PageExtractor
	productStore    driven.ProductStore
	configStore     driven.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "makerlens",
	Short: "Index and search maker-built products",
	Long: `Makerlens indexes web products by URL and searches them with a blend
of keyword and semantic matching. Products are enriched with extracted
content, expanded tags and vector embeddings, all stored locally.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		// Help and version need no services.
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initServices builds the full adapter and service graph. Idempotent so
// tests can pre-wire mocks and commands can run standalone.
func initServices() error {
	if indexingService != nil && searchService != nil {
		return nil
	}

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg
	settingsService = services.NewSettingsService(configStore)
	settings := settingsService.Get()

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening product store: %w", err)
	}
	productStore = store

	embedder, err := embedding.NewValidatedService(settings.Embedding)
	if err != nil {
		return fmt.Errorf("configuring embedding provider %q: %w\nCheck 'makerlens settings show' and the provider's availability",
			settings.Embedding.Provider, err)
	}

	pageExtractor = extractor.New(extractor.Config{})

	expander := services.NewTagExpander(embedder, services.TagExpanderConfig{
		SimilarityThreshold: settings.Tags.SimilarityThreshold,
		MaxExpansionsPerTag: settings.Tags.MaxExpansionsPerTag,
	})

	indexingService = services.NewIndexingService(productStore, pageExtractor, embedder, expander, services.IndexingConfig{
		MaxTags:         settings.Tags.MaxTags,
		ReindexCooldown: reindexCooldown(settings.Indexing.ReindexCooldownHours),
	})
	searchService = services.NewSearchService(productStore, embedder, services.SearchConfig{
		VectorWeight:  settings.Search.VectorWeight,
		LexicalWeight: settings.Search.LexicalWeight,
		MinScore:      settings.Search.MinScore,
	})
	return nil
}

// reindexCooldown converts configured hours into the service's window.
// Zero or negative config disables the limiter.
func reindexCooldown(hours int) time.Duration {
	if hours <= 0 {
		return -1
	}
	return time.Duration(hours) * time.Hour
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
