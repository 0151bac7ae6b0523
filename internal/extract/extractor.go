package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/vehiclex/internal/document"
	"github.com/ppiankov/vehiclex/internal/model"
	"github.com/ppiankov/vehiclex/internal/normalize"
	"github.com/rs/zerolog/log"
)

// Extractor runs the strategy cascade for every field of a detail page.
// It holds no mutable state and may be shared between goroutines.
type Extractor struct {
	fields     []FieldSpec
	strategies []Strategy
	normalizer *normalize.Normalizer
	selectors  model.Selectors
}

// New creates an extractor with the default strategy order:
// structural, labeled-text, full-text.
func New(cfg *model.Config) *Extractor {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	n := normalize.New(cfg.Vocabulary)
	fields := Fields(cfg.Aliases)

	return NewWithStrategies(cfg.Selectors, fields, n,
		NewStructuralStrategy(cfg.Selectors, fields, n),
		NewLabeledTextStrategy(n),
		NewFullTextStrategy(n),
	)
}

// NewWithStrategies creates an extractor with an explicit strategy order
func NewWithStrategies(selectors model.Selectors, fields []FieldSpec, n *normalize.Normalizer, strategies ...Strategy) *Extractor {
	return &Extractor{
		fields:     fields,
		strategies: strategies,
		normalizer: n,
		selectors:  selectors,
	}
}

// Fields returns the target fields in extraction order
func (e *Extractor) Fields() []FieldSpec {
	return e.fields
}

// Normalizer returns the value normalizer shared by the strategies
func (e *Extractor) Normalizer() *normalize.Normalizer {
	return e.normalizer
}

// Extract builds the details record for doc. Fields that no strategy
// resolves keep their default value.
func (e *Extractor) Extract(doc *document.Document) model.VehicleDetails {
	details, _ := e.Trace(doc)
	return details
}

// Trace is Extract that also reports, per field, which strategy resolved it
// and from what text
func (e *Extractor) Trace(doc *document.Document) (model.VehicleDetails, []model.FieldTrace) {
	details := model.DefaultDetails()
	traces := make([]model.FieldTrace, 0, len(e.fields))
	if doc == nil {
		return details, traces
	}

	for _, field := range e.fields {
		trace := model.FieldTrace{Field: field.Name}
		if attempt := e.Resolve(doc, field); attempt.OK() {
			setField(&details, field.Name, attempt.Value)
			trace.Resolved = true
			trace.Strategy = attempt.Strategy
			trace.Raw = attempt.Raw
			trace.Value = attempt.Value
		}
		traces = append(traces, trace)
	}
	details.Options = e.Options(doc)

	return details, traces
}

// ExtractDocument is Extract for callers that may not have a document. It
// returns the default record and document.ErrUnavailable when doc is nil.
func (e *Extractor) ExtractDocument(doc *document.Document) (model.VehicleDetails, error) {
	if doc == nil {
		return model.DefaultDetails(), document.ErrUnavailable
	}
	return e.Extract(doc), nil
}

// Resolve runs the cascade for one field and returns the first successful
// attempt, or the last attempt when every strategy comes up empty.
func (e *Extractor) Resolve(doc *document.Document, field FieldSpec) Attempt {
	var last Attempt
	for _, strategy := range e.strategies {
		attempt := strategy.Attempt(doc, field)
		if attempt.OK() {
			log.Debug().
				Str("field", field.Name).
				Str("strategy", strategy.Name()).
				Str("value", attempt.Value).
				Msg("field resolved")
			return attempt
		}
		last = attempt
	}

	log.Debug().Str("field", field.Name).Msg("field unresolved")
	return last
}

// Options collects the option list items in document order. Empty items are
// skipped; duplicates are kept.
func (e *Extractor) Options(doc *document.Document) []string {
	options := []string{}
	if doc == nil || e.selectors.OptionItems == "" {
		return options
	}

	doc.Query().Find(e.selectors.OptionItems).Each(func(_ int, item *goquery.Selection) {
		if text := document.CleanText(item.Text()); text != "" {
			options = append(options, text)
		}
	})
	return options
}
