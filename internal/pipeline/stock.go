package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/vehiclex/internal/model"
	"github.com/ppiankov/vehiclex/internal/worker"
)

// ErrDetailMissing is reported for a card whose detail page was not saved
var ErrDetailMissing = errors.New("detail page not found")

// StockResult pairs a merged listing with the problem found while building
// it, if any. The listing is always usable: without details it carries the
// card values only.
type StockResult struct {
	Listing model.Listing
	Error   error
}

// GetError returns the error from the stock result
func (r *StockResult) GetError() error {
	return r.Error
}

type stockJob struct {
	pipeline   *Pipeline
	card       model.ListingCard
	detailsDir string
}

func (j *stockJob) Execute(ctx context.Context) worker.Result {
	path := FindDetailPage(j.detailsDir, j.card.LinkDetails)
	if path == "" {
		err := fmt.Errorf("%s: %w", j.card.LinkDetails, ErrDetailMissing)
		log.Warn().Str("card", j.card.Name).Msg("no saved detail page")
		return &StockResult{Listing: model.NewListing(j.card, model.DefaultDetails(), "", nil), Error: err}
	}

	result, err := j.pipeline.ExtractPage(ctx, path, j.card.LinkDetails)
	if err != nil {
		log.Warn().Err(err).Str("card", j.card.Name).Msg("detail extraction failed")
		return &StockResult{Listing: model.NewListing(j.card, model.DefaultDetails(), "", nil), Error: err}
	}

	return &StockResult{
		Listing: model.NewListing(j.card, result.Details, result.Description, result.Photos),
	}
}

// Stock reads a saved listing page, finds each card's saved detail page in
// detailsDir and merges card and details concurrently. Results keep card
// order; a card whose details are missing or broken keeps its card values.
func (p *Pipeline) Stock(ctx context.Context, listingPath string, listingURL string, detailsDir string) ([]*StockResult, error) {
	cards, err := p.Cards(ctx, listingPath, listingURL)
	if err != nil {
		return nil, err
	}

	log.Info().Int("cards", len(cards)).Str("listing", listingPath).Msg("listing parsed")

	pool := worker.NewPool(ctx, p.config.Concurrency.Workers)
	pool.Start()

	for _, card := range cards {
		if !pool.Submit(&stockJob{pipeline: p, card: card, detailsDir: detailsDir}) {
			break
		}
	}

	results := pool.Wait()
	stock := make([]*StockResult, 0, len(results))
	for _, result := range results {
		stock = append(stock, result.(*StockResult))
	}

	if err := ctx.Err(); err != nil {
		return stock, fmt.Errorf("stock interrupted: %w", err)
	}
	return stock, nil
}

// FindDetailPage maps a detail link to a saved file in dir by the link's
// slug, trying slug.html, slug.htm and the bare slug. It returns "" when no
// file exists.
func FindDetailPage(dir string, link string) string {
	slug := Slug(link)
	if slug == "" || dir == "" {
		return ""
	}

	for _, name := range []string{slug + ".html", slug + ".htm", slug} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
