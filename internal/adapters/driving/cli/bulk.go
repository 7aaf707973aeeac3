package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/makerlens/makerlens-cli/internal/core/ports/driving"
)

var (
	bulkFile string
	bulkJSON bool
)

var bulkCmd = &cobra.Command{
	Use:   "bulk [url...]",
	Short: "Index multiple products in one run",
	Long: `Indexes each URL independently. A URL that fails to index is reported
but never aborts the rest of the batch. URLs are taken from arguments,
or from a file with one URL per line when --file is given.`,
	RunE: runBulk,
}

func init() {
	bulkCmd.Flags().StringVarP(&bulkFile, "file", "f", "", "file with one URL per line")
	bulkCmd.Flags().BoolVar(&bulkJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(bulkCmd)
}

func runBulk(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	urls := args
	if bulkFile != "" {
		fileURLs, err := readURLFile(bulkFile)
		if err != nil {
			return err
		}
		urls = append(urls, fileURLs...)
	}
	if len(urls) == 0 {
		return errors.New("no URLs given, pass them as arguments or via --file")
	}

	reqs := make([]driving.IndexRequest, 0, len(urls))
	for _, u := range urls {
		reqs = append(reqs, driving.IndexRequest{URL: u})
	}

	result, err := indexingService.BulkIndex(context.Background(), reqs)
	if err != nil {
		return err
	}

	if bulkJSON {
		return printJSON(cmd, result)
	}

	for i := range result.Indexed {
		cmd.Printf("  ok    %s\n", result.Indexed[i].URL)
	}
	for _, f := range result.Failed {
		cmd.Printf("  fail  %s: %s\n", f.URL, f.Error)
	}
	cmd.Printf("\nIndexed %d, failed %d\n", len(result.Indexed), len(result.Failed))
	return nil
}

// readURLFile reads one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	return urls, nil
}
