package extract

import (
	"regexp"

	"github.com/ppiankov/vehiclex/internal/document"
	"github.com/ppiankov/vehiclex/internal/normalize"
)

var (
	looseAmount      = regexp.MustCompile(`R\$\s*\d[\d.]*,\d{2}`)
	plausibleYear    = regexp.MustCompile(`\b(?:19|20)\d{2}(?:\s*/\s*(?:19|20)\d{2})?\b`)
	mileageWithUnit  = regexp.MustCompile(`(?i)(\d{1,3}(?:\.\d{3})+|\d{2,})\s*km(?:[^/\p{L}]|$)`)
	transmissionWord = regexp.MustCompile(`(?i)\b(?:autom[aá]tic[oa]|automatizad[oa]|manual)`)
	doorsWithUnit    = regexp.MustCompile(`(?i)(\d)\s*portas\b`)
)

// FullTextStrategy searches the whole space-joined page text. It is the most
// permissive strategy and runs last.
type FullTextStrategy struct {
	normalizer *normalize.Normalizer
}

// NewFullTextStrategy creates a full-text strategy
func NewFullTextStrategy(n *normalize.Normalizer) *FullTextStrategy {
	return &FullTextStrategy{normalizer: n}
}

// Name returns the strategy name
func (s *FullTextStrategy) Name() string {
	return StrategyFullText
}

// Attempt applies the field's pattern, or its vocabulary, to the page text
func (s *FullTextStrategy) Attempt(doc *document.Document, field FieldSpec) Attempt {
	result := Attempt{Strategy: StrategyFullText}
	if doc == nil || doc.Text() == "" {
		return result
	}
	text := doc.Text()

	var raw string
	switch field.Kind {
	case normalize.KindCurrency:
		raw = looseAmount.FindString(text)
	case normalize.KindYearRange:
		raw = plausibleYear.FindString(text)
	case normalize.KindIntegerWithUnit:
		raw = submatch(mileageWithUnit, text)
	case normalize.KindTransmission:
		raw = transmissionWord.FindString(text)
	case normalize.KindSmallInteger:
		raw = submatch(doorsWithUnit, text)
	case normalize.KindColor, normalize.KindFuel:
		value := s.normalizer.Normalize(field.Kind, text)
		return Attempt{Strategy: StrategyFullText, Raw: value, Value: value}
	}

	if raw == "" {
		return result
	}
	return newAttempt(StrategyFullText, s.normalizer, field, raw)
}

func submatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
