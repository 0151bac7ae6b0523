package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/vehiclex/internal/model"
	"github.com/ppiankov/vehiclex/internal/pipeline"
	"github.com/ppiankov/vehiclex/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Extract many saved pages in parallel",
	Long: `Batch extracts every page named in a list file:
- One entry per line: a page path, optionally followed by its URL
- Blank lines and lines starting with # are ignored
- Relative paths are read from the list file's directory
- Pages are processed in parallel; a broken page is logged and skipped

The output is a JSON array in list order.

Example:
  vehiclex batch pages.txt
  vehiclex batch pages.txt --concurrency 8 --json stock.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

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

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	log.Info().
		Str("input", file).
		Int("workers", cfg.Concurrency.Workers).
		Dur("timeout", batchTimeout).
		Msg("starting batch")

	start := time.Now()
	processor := worker.NewBatchProcessor(pipeline.NewPipeline(cfg), cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	listings := make([]model.Listing, 0, len(results))
	failed := 0
	for _, result := range results {
		if result.Error != nil {
			failed++
			continue
		}
		listings = append(listings, *result.Listing)
	}

	log.Info().
		Int("pages", len(results)).
		Int("extracted", len(listings)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start).Round(time.Millisecond)).
		Msg("batch complete")

	if err := writeJSON(cfg, listings, outJSON); err != nil {
		return err
	}

	if len(results) > 0 && failed == len(results) {
		return fmt.Errorf("all %d pages failed", failed)
	}
	return nil
}
