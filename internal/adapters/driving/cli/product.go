package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driving"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage indexed products",
	Long:  `List, view, refresh, edit, claim or delete indexed products.`,
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed products",
	RunE:  runProductList,
}

var productGetCmd = &cobra.Command{
	Use:   "get [product-id]",
	Short: "Show product details",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductGet,
}

var productReindexCmd = &cobra.Command{
	Use:   "reindex [product-id]",
	Short: "Refresh a product from its source page",
	Long: `Re-extracts the product's page and rebuilds the stored document under
the same ID. Reports which fields changed. A product can be re-indexed
at most once per cooldown window.`,
	Args: cobra.ExactArgs(1),
	RunE: runProductReindex,
}

var productUpdateCmd = &cobra.Command{
	Use:   "update [product-id]",
	Short: "Edit product fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductUpdate,
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete [product-id]",
	Short: "Remove a product from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductDelete,
}

var productClaimCmd = &cobra.Command{
	Use:   "claim [url]",
	Short: "Claim ownership of an indexed product",
	Long: `Verifies that the product's page carries a creator meta tag matching
the given handle and records the handle as the product's owner.`,
	Args: cobra.ExactArgs(1),
	RunE: runProductClaim,
}

var productSimilarCmd = &cobra.Command{
	Use:   "similar [product-id]",
	Short: "Find products similar to a given one",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductSimilar,
}

var productPricingCmd = &cobra.Command{
	Use:   "pricing [product-id]",
	Short: "Probe a product's site for pricing pages",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductPricing,
}

// Flags for product subcommands.
var (
	updateName        string
	updateDescription string
	updateTags        []string
	updateCategories  []string
	claimHandle       string
	similarLimit      int
	productJSON       bool
)

func init() {
	productUpdateCmd.Flags().StringVar(&updateName, "name", "", "new product name")
	productUpdateCmd.Flags().StringVar(&updateDescription, "description", "", "new product description")
	productUpdateCmd.Flags().StringSliceVarP(&updateTags, "tag", "t", nil, "replacement tags (repeatable)")
	productUpdateCmd.Flags().StringSliceVarP(&updateCategories, "category", "c", nil, "replacement categories (repeatable)")
	productClaimCmd.Flags().StringVar(&claimHandle, "as", "", "identity handle claiming ownership (required)")
	productSimilarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 10, "maximum number of results")
	productCmd.PersistentFlags().BoolVar(&productJSON, "json", false, "output as JSON")

	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productGetCmd)
	productCmd.AddCommand(productReindexCmd)
	productCmd.AddCommand(productUpdateCmd)
	productCmd.AddCommand(productDeleteCmd)
	productCmd.AddCommand(productClaimCmd)
	productCmd.AddCommand(productSimilarCmd)
	productCmd.AddCommand(productPricingCmd)
	rootCmd.AddCommand(productCmd)
}

func runProductList(cmd *cobra.Command, _ []string) error {
	if productStore == nil {
		return errors.New("product store not configured")
	}

	products, err := productStore.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	if productJSON {
		return printJSON(cmd, products)
	}
	if len(products) == 0 {
		cmd.Println("No products indexed yet.")
		return nil
	}

	for i := range products {
		cmd.Printf("  %s  %s\n", products[i].ID, products[i].Name)
		cmd.Printf("      %s\n", products[i].URL)
	}
	cmd.Printf("\nTotal: %d products\n", len(products))
	return nil
}

func runProductGet(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	product, err := indexingService.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	if productJSON {
		return printJSON(cmd, product)
	}
	printProduct(cmd, product)
	return nil
}

func runProductReindex(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	result, err := indexingService.Reindex(context.Background(), args[0])
	if err != nil {
		var rlErr *domain.RateLimitError
		if errors.As(err, &rlErr) {
			return fmt.Errorf("%w\nTry again in about %dh", err, rlErr.HoursRemaining)
		}
		return err
	}

	if productJSON {
		return printJSON(cmd, result)
	}

	cmd.Printf("Re-indexed %s\n", result.Product.URL)
	if !result.Changes.Any() {
		cmd.Println("  No changes detected.")
		return nil
	}
	cmd.Println("  Changed fields:")
	changes := []struct {
		field   string
		changed bool
	}{
		{"name", result.Changes.Name},
		{"description", result.Changes.Description},
		{"tags", result.Changes.Tags},
		{"owner", result.Changes.Owner},
	}
	for _, c := range changes {
		if c.changed {
			cmd.Printf("    - %s\n", c.field)
		}
	}
	return nil
}

func runProductUpdate(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	req := driving.UpdateRequest{
		Tags:       updateTags,
		Categories: updateCategories,
	}
	if cmd.Flags().Changed("name") {
		req.Name = &updateName
	}
	if cmd.Flags().Changed("description") {
		req.Description = &updateDescription
	}

	if err := indexingService.Update(context.Background(), args[0], req); err != nil {
		return err
	}
	cmd.Printf("Updated %s\n", args[0])
	return nil
}

func runProductDelete(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	if err := indexingService.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runProductClaim(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}
	if claimHandle == "" {
		return errors.New("--as is required")
	}

	product, err := indexingService.Claim(context.Background(), args[0], claimHandle)
	if err != nil {
		return describeIndexError(err)
	}

	if productJSON {
		return printJSON(cmd, product)
	}
	cmd.Printf("Claimed %s as @%s\n", product.URL, product.OwnerHandle)
	return nil
}

func runProductSimilar(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	resp, err := searchService.FindSimilar(context.Background(), args[0], similarLimit)
	if err != nil {
		return err
	}

	if productJSON {
		return printJSON(cmd, resp)
	}
	if len(resp.Results) == 0 {
		cmd.Println("No similar products found.")
		return nil
	}
	for i := range resp.Results {
		p := resp.Results[i].Product
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, p.Name, resp.Results[i].Score)
		cmd.Printf("      %s\n", p.URL)
	}
	return nil
}

func runProductPricing(cmd *cobra.Command, args []string) error {
	if indexingService == nil || pageExtractor == nil {
		return errors.New("services not configured")
	}

	product, err := indexingService.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	info, err := pageExtractor.ProbePricing(context.Background(), product.URL)
	if err != nil {
		return fmt.Errorf("pricing probe failed: %w", err)
	}

	if productJSON {
		return printJSON(cmd, info)
	}
	if !info.Found {
		cmd.Printf("No pricing page found on %s\n", product.URL)
		return nil
	}
	cmd.Printf("Pricing info found on %s:\n  %s\n", product.URL, info.Snippet)
	return nil
}
