package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/vehiclex/internal/model"
)

// Extractor turns one saved page into a listing record
type Extractor interface {
	ExtractListing(ctx context.Context, path string, pageURL string) (*model.Listing, error)
}

// Page is one entry of a batch list: a saved file and the URL it came from
type Page struct {
	Path string
	URL  string
}

// ExtractJob represents one page extraction
type ExtractJob struct {
	Page      Page
	Extractor Extractor
}

// Execute executes the extraction job
func (j *ExtractJob) Execute(ctx context.Context) Result {
	listing, err := j.Extractor.ExtractListing(ctx, j.Page.Path, j.Page.URL)
	if err != nil {
		log.Warn().Err(err).Str("path", j.Page.Path).Msg("extraction failed")
	}
	return &ExtractResult{
		Page:    j.Page,
		Listing: listing,
		Error:   err,
	}
}

// ExtractResult represents the result of an extraction job
type ExtractResult struct {
	Page    Page
	Listing *model.Listing
	Error   error
}

// GetError returns the error from the extraction result
func (r *ExtractResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts many pages concurrently
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(extractor Extractor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
	}
}

// ProcessPages extracts every page and returns one result per page, in
// input order. One failing page never aborts the batch.
func (b *BatchProcessor) ProcessPages(ctx context.Context, pages []Page) []*ExtractResult {
	if len(pages) == 0 {
		return []*ExtractResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, page := range pages {
		if !pool.Submit(&ExtractJob{Page: page, Extractor: b.extractor}) {
			break
		}
	}

	results := pool.Wait()

	extracted := make([]*ExtractResult, len(results))
	for i, result := range results {
		extracted[i] = result.(*ExtractResult)
	}

	return extracted
}

// ProcessFile reads a page list and extracts every page in it
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*ExtractResult, error) {
	pages, err := ReadPagesFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read page list: %w", err)
	}

	return b.ProcessPages(ctx, pages), nil
}

// ReadPagesFromFile reads a page list: one "path [page-url]" entry per line.
// Blank lines and # comments are skipped, repeated paths are dropped and
// relative paths are resolved against the list file's directory.
func ReadPagesFromFile(listPath string) ([]Page, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	dir := filepath.Dir(listPath)
	var pages []Page
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		page := Page{Path: fields[0]}
		if len(fields) > 1 {
			page.URL = fields[1]
		}
		if !filepath.IsAbs(page.Path) {
			page.Path = filepath.Join(dir, page.Path)
		}

		if !seen[page.Path] {
			seen[page.Path] = true
			pages = append(pages, page)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return pages, nil
}
