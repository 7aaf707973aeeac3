package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driving"
)

var (
	indexName        string
	indexDescription string
	indexTags        []string
	indexCategories  []string
	indexAs          string
	indexJSON        bool
)

var indexCmd = &cobra.Command{
	Use:   "index [url]",
	Short: "Index a product by URL",
	Long: `Indexes a product from its root domain URL. Page content is extracted
automatically; supplying both --name and --description skips extraction
and uses the given data instead. Tags are merged with extracted ones and
expanded against the reference vocabulary.

With --as, the page must carry a creator meta tag matching the handle,
and the product is recorded as owned by it.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexName, "name", "", "product name (manual mode, requires --description)")
	indexCmd.Flags().StringVar(&indexDescription, "description", "", "product description (manual mode, requires --name)")
	indexCmd.Flags().StringSliceVarP(&indexTags, "tag", "t", nil, "tag to attach (repeatable)")
	indexCmd.Flags().StringSliceVarP(&indexCategories, "category", "c", nil, "category to attach (repeatable)")
	indexCmd.Flags().StringVar(&indexAs, "as", "", "identity handle claiming ownership")
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output the product as JSON")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	product, err := indexingService.Index(context.Background(), driving.IndexRequest{
		URL:         args[0],
		Name:        indexName,
		Description: indexDescription,
		Tags:        indexTags,
		Categories:  indexCategories,
		IndexedBy:   indexAs,
	})
	if err != nil {
		return describeIndexError(err)
	}

	if indexJSON {
		return printJSON(cmd, product)
	}

	cmd.Printf("Indexed %s\n", product.URL)
	printProduct(cmd, product)
	return nil
}

// describeIndexError attaches remediation hints to well-known failures.
func describeIndexError(err error) error {
	var ownErr *domain.OwnershipError
	if errors.As(err, &ownErr) {
		return fmt.Errorf("%w\nAdd this to the page's <head> and retry:\n  %s",
			err, ownErr.ExpectedMetaTag())
	}
	if errors.Is(err, domain.ErrDuplicateURL) {
		return fmt.Errorf("%w\nUse 'makerlens product reindex' to refresh it", err)
	}
	return err
}

// printProduct renders a product in the standard detail layout.
func printProduct(cmd *cobra.Command, p *domain.Product) {
	cmd.Printf("  ID:          %s\n", p.ID)
	cmd.Printf("  Name:        %s\n", p.Name)
	if p.Description != "" {
		cmd.Printf("  Description: %s\n", p.Description)
	}
	if len(p.Tags) > 0 {
		cmd.Printf("  Tags:        %s\n", strings.Join(p.Tags, ", "))
	}
	if len(p.Categories) > 0 {
		cmd.Printf("  Categories:  %s\n", strings.Join(p.Categories, ", "))
	}
	if p.OwnerHandle != "" {
		cmd.Printf("  Owner:       @%s\n", p.OwnerHandle)
	}
	cmd.Printf("  Indexed:     %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
}
