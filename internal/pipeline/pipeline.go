// Package pipeline wires loading, profile selection, caching and extraction
// of saved vehicle pages.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/vehiclex/internal/cache"
	"github.com/ppiankov/vehiclex/internal/document"
	"github.com/ppiankov/vehiclex/internal/extract"
	"github.com/ppiankov/vehiclex/internal/extract/profiles"
	"github.com/ppiankov/vehiclex/internal/model"
	"github.com/ppiankov/vehiclex/internal/score"
)

// Pipeline orchestrates extraction of saved pages
type Pipeline struct {
	loader     *Loader
	profiles   *profiles.Registry
	extractors map[string]*extract.Extractor
	cache      cache.Cache
	scorer     *score.Scorer
	config     *model.Config
}

// NewPipeline creates a new pipeline with the cache described by cfg
func NewPipeline(cfg *model.Config) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return NewPipelineWithCache(cfg, cache.New(cfg.Cache))
}

// NewPipelineWithCache creates a new pipeline over an explicit cache
func NewPipelineWithCache(cfg *model.Config, c cache.Cache) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if c == nil {
		c = cache.Noop{}
	}

	registry := profiles.NewRegistry(cfg.Selectors)

	// One extractor per profile, sharing vocabulary and aliases
	extractors := make(map[string]*extract.Extractor)
	for _, profile := range registry.All() {
		profileCfg := *cfg
		profileCfg.Selectors = profile.Selectors()
		extractors[profile.Name()] = extract.New(&profileCfg)
	}

	return &Pipeline{
		loader:     NewLoader(cfg.Page.MaxBytes),
		profiles:   registry,
		extractors: extractors,
		cache:      c,
		scorer:     score.NewScorer(),
		config:     cfg,
	}
}

// PageResult is everything extracted from one detail page
type PageResult struct {
	Profile     string               `json:"profile"`
	Details     model.VehicleDetails `json:"details"`
	Description string               `json:"description"`
	Photos      []string             `json:"photos"`
	Fields      []model.FieldTrace   `json:"fields"`
	Score       model.Score          `json:"-"` // Recomputed from Fields on cache hits
	Cached      bool                 `json:"-"`
}

// ExtractPage loads and extracts one saved detail page. An empty pageURL
// falls back to the configured base URL.
func (p *Pipeline) ExtractPage(ctx context.Context, path string, pageURL string) (*PageResult, error) {
	pageURL = p.pageURL(pageURL)

	loaded, err := p.loader.Load(ctx, path, pageURL)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	result, err := p.ExtractHTML(loaded.HTML, pageURL)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}

	log.Debug().
		Str("subject", loaded.Subject).
		Str("profile", result.Profile).
		Bool("cached", result.Cached).
		Int("score", result.Score.Index).
		Msg("page extracted")

	return result, nil
}

// ExtractHTML extracts a detail page already in memory
func (p *Pipeline) ExtractHTML(html []byte, pageURL string) (*PageResult, error) {
	profile := p.profiles.Find(pageURL)
	key := cache.Key(profile.Name(), pageURL, html)

	if data, found := p.cache.Get(key); found {
		var cached PageResult
		if err := json.Unmarshal(data, &cached); err == nil {
			cached.Cached = true
			cached.Score = p.scorer.Calculate(cached.Fields, len(cached.Details.Options))
			return &cached, nil
		}
		log.Warn().Str("key", key).Msg("discarding unreadable cache entry")
	}

	doc, err := document.Parse(bytes.NewReader(html), pageURL)
	if err != nil {
		return nil, err
	}

	e := p.extractors[profile.Name()]
	details, traces := e.Trace(doc)

	result := &PageResult{
		Profile:     profile.Name(),
		Details:     details,
		Description: e.Description(doc),
		Photos:      e.Photos(doc),
		Fields:      traces,
		Score:       p.scorer.Calculate(traces, len(details.Options)),
	}

	if data, err := json.Marshal(result); err == nil {
		if err := p.cache.Set(key, data, 0); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}

	return result, nil
}

// ExtractListing extracts one detail page into a listing record linked to
// its page URL
func (p *Pipeline) ExtractListing(ctx context.Context, path string, pageURL string) (*model.Listing, error) {
	result, err := p.ExtractPage(ctx, path, pageURL)
	if err != nil {
		return nil, err
	}

	card := model.ListingCard{LinkDetails: p.pageURL(pageURL)}
	listing := model.NewListing(card, result.Details, result.Description, result.Photos)
	return &listing, nil
}

// Report extracts one saved detail page and describes how each field was
// resolved
func (p *Pipeline) Report(ctx context.Context, path string, pageURL string) (*model.Report, error) {
	result, err := p.ExtractPage(ctx, path, pageURL)
	if err != nil {
		return nil, err
	}

	return &model.Report{
		Path:    path,
		PageURL: p.pageURL(pageURL),
		Profile: result.Profile,
		Fields:  result.Fields,
		Options: len(result.Details.Options),
		Score:   result.Score,
	}, nil
}

// Cards loads a saved listing page and returns its vehicle cards
func (p *Pipeline) Cards(ctx context.Context, path string, pageURL string) ([]model.ListingCard, error) {
	pageURL = p.pageURL(pageURL)

	loaded, err := p.loader.Load(ctx, path, pageURL)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	doc, err := document.Parse(bytes.NewReader(loaded.HTML), pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	profile := p.profiles.Find(pageURL)
	return p.extractors[profile.Name()].ListingCards(doc), nil
}

func (p *Pipeline) pageURL(pageURL string) string {
	if pageURL != "" {
		return pageURL
	}
	return p.config.Page.BaseURL
}
