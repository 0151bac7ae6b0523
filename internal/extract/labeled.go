package extract

import (
	"strings"

	"github.com/ppiankov/vehiclex/internal/document"
	"github.com/ppiankov/vehiclex/internal/normalize"
)

// LabeledTextStrategy scans the page's text lines for "label: value" pairs
type LabeledTextStrategy struct {
	normalizer *normalize.Normalizer
}

// NewLabeledTextStrategy creates a labeled-text strategy
func NewLabeledTextStrategy(n *normalize.Normalizer) *LabeledTextStrategy {
	return &LabeledTextStrategy{normalizer: n}
}

// Name returns the strategy name
func (s *LabeledTextStrategy) Name() string {
	return StrategyLabeled
}

// Attempt tries each alias in order against every line; the first alias
// that matches, on the first matching line, wins. A line holding nothing
// but the label (definition lists, table cells split across rows) takes the
// next line as its value; an alias trailing some other value is skipped.
func (s *LabeledTextStrategy) Attempt(doc *document.Document, field FieldSpec) Attempt {
	result := Attempt{Strategy: StrategyLabeled}
	if doc == nil {
		return result
	}

	lines := doc.Lines()
	for p, pattern := range field.labelPatterns {
		for i, line := range lines {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			candidate := strings.TrimSpace(m[1])
			if candidate == "" && i+1 < len(lines) && field.labelOnly[p].MatchString(line) {
				candidate = lines[i+1]
			}
			if candidate == "" {
				continue
			}
			return newAttempt(StrategyLabeled, s.normalizer, field, candidate)
		}
	}

	return result
}
