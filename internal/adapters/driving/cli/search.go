package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
)

var (
	searchLimit  int
	searchOffset int
	searchTags   []string
	searchMode   string
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed products",
	Long: `Performs hybrid search across all indexed products.
Combines keyword (BM25) and semantic (vector) matching; --mode restricts
the search to a single branch. Tags given with --tag act as a hard
filter on top of the ranked results.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().StringSliceVarP(&searchTags, "tag", "t", nil, "require at least one of these tags (repeatable)")
	searchCmd.Flags().StringVar(&searchMode, "mode", "hybrid", "search mode: hybrid, vector or lexical")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	mode, err := parseSearchMode(searchMode)
	if err != nil {
		return err
	}

	resp, err := searchService.Search(context.Background(), args[0], domain.SearchOptions{
		Limit:  searchLimit,
		Offset: searchOffset,
		Tags:   searchTags,
		Mode:   mode,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, resp)
	}
	return outputSearchTable(cmd, resp)
}

func parseSearchMode(s string) (domain.SearchMode, error) {
	switch s {
	case "", "hybrid":
		return domain.SearchModeHybrid, nil
	case "vector":
		return domain.SearchModeVector, nil
	case "lexical":
		return domain.SearchModeLexical, nil
	default:
		return "", fmt.Errorf("unknown search mode %q (hybrid, vector or lexical)", s)
	}
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse) error {
	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results for %q (%d total, %dms):\n\n", resp.Query, resp.Total, resp.TookMS)
	for i := range resp.Results {
		p := resp.Results[i].Product
		cmd.Printf("  [%d] %s (%.2f)\n", searchOffset+i+1, p.Name, resp.Results[i].Score)
		cmd.Printf("      %s\n", p.URL)
		if p.Description != "" {
			cmd.Printf("      %s\n", truncateLine(p.Description, 100))
		}
		cmd.Println()
	}
	return nil
}

// printJSON renders any value as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func truncateLine(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
