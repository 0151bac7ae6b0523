package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/vehiclex/internal/model"
	"github.com/ppiankov/vehiclex/internal/pipeline"
)

var (
	outJSON string
	pageURL string
	noCache bool
	report  bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <page.html>...",
	Short: "Extract vehicle details from saved detail pages",
	Long: `Extract reads one or more saved vehicle detail pages and prints one
record per page: price, year, mileage, color, transmission, fuel, door
count, options, description and photos.

The page URL picks the site profile and resolves relative photo links.

Example:
  vehiclex extract onix.html --url https://eurocarveiculos.com/carro/onix-lt
  vehiclex extract pages/*.html --json details.json
  vehiclex extract onix.html --report`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	extractCmd.Flags().StringVar(&pageURL, "url", "", "URL the page was saved from (default: page.base_url)")
	extractCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	extractCmd.Flags().BoolVar(&report, "report", false, "print how each field was resolved and a quality score instead of the record")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	p := pipeline.NewPipeline(cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if report {
		return runReport(ctx, p, cfg, args)
	}

	listings, err := extractPages(args, func(path string) (model.Listing, error) {
		listing, err := p.ExtractListing(ctx, path, pageURL)
		if err != nil {
			return model.Listing{}, err
		}
		log.Info().Str("path", path).Str("price", listing.Price).Str("year", listing.Year).Msg("extracted")
		return *listing, nil
	})
	if err != nil {
		return err
	}

	// A single page prints a single object
	var out any = listings
	if len(listings) == 1 {
		out = listings[0]
	}
	return writeJSON(cfg, out, outJSON)
}

func runReport(ctx context.Context, p *pipeline.Pipeline, cfg *model.Config, paths []string) error {
	reports, err := extractPages(paths, func(path string) (*model.Report, error) {
		r, err := p.Report(ctx, path, pageURL)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("path", path).
			Int("score", r.Score.Index).
			Str("confidence", r.Score.Confidence).
			Msg("extraction report")
		return r, nil
	})
	if err != nil {
		return err
	}

	var out any = reports
	if len(reports) == 1 {
		out = reports[0]
	}
	return writeJSON(cfg, out, outJSON)
}

// extractPages runs fn on every path, logging and skipping pages that fail.
// It errors only when no page succeeds.
func extractPages[T any](paths []string, fn func(path string) (T, error)) ([]T, error) {
	results := make([]T, 0, len(paths))
	var lastErr error
	for _, path := range paths {
		v, err := fn(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping page")
			lastErr = err
			continue
		}
		results = append(results, v)
	}

	if len(results) == 0 && lastErr != nil {
		if len(paths) == 1 {
			return nil, fmt.Errorf("extract failed: %w", lastErr)
		}
		return nil, fmt.Errorf("extract failed: all %d pages failed, last: %w", len(paths), lastErr)
	}
	return results, nil
}

// writeJSON renders v to path, or to stdout when path is empty
func writeJSON(cfg *model.Config, v any, path string) error {
	renderer := pipeline.NewRenderer(cfg.Output.Indent)
	if path == "" {
		return renderer.Write(os.Stdout, v)
	}
	if err := renderer.RenderJSON(v, path); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	log.Info().Str("path", path).Msg("wrote JSON")
	return nil
}
