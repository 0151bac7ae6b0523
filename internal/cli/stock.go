package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/vehiclex/internal/model"
	"github.com/ppiankov/vehiclex/internal/pipeline"
)

var (
	detailsDir string
	listingURL string
)

// stockCmd represents the stock command
var stockCmd = &cobra.Command{
	Use:   "stock <listing.html>",
	Short: "Build the stock list from a saved listing page and its detail pages",
	Long: `Stock reads the vehicle cards of a saved listing page, looks up each
card's saved detail page by the last segment of its link (slug.html,
slug.htm or slug) and merges card and detail values into one record.

Detail values win; card values fill what the detail page lacks. Cards
whose detail page is missing keep their card values.

Example:
  vehiclex stock multipla.html --url https://eurocarveiculos.com/multipla --details-dir ./carros`,
	Args: cobra.ExactArgs(1),
	RunE: runStock,
}

func init() {
	rootCmd.AddCommand(stockCmd)

	stockCmd.Flags().StringVar(&detailsDir, "details-dir", "", "directory with saved detail pages (default: the listing's directory)")
	stockCmd.Flags().StringVar(&listingURL, "url", "", "URL the listing was saved from (default: page.base_url)")
	stockCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	stockCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout")
	stockCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	stockCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
}

func runStock(cmd *cobra.Command, args []string) error {
	listingPath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	dir := detailsDir
	if dir == "" {
		dir = filepath.Dir(listingPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	results, err := pipeline.NewPipeline(cfg).Stock(ctx, listingPath, listingURL, dir)
	if err != nil {
		return fmt.Errorf("stock failed: %w", err)
	}

	listings := make([]model.Listing, 0, len(results))
	missing := 0
	for _, result := range results {
		if result.Error != nil {
			missing++
		}
		listings = append(listings, result.Listing)
	}

	log.Info().
		Int("cards", len(results)).
		Int("without_details", missing).
		Msg("stock complete")

	return writeJSON(cfg, listings, outJSON)
}
