// Package normalize turns raw matched text into canonical field values.
package normalize

import (
	"regexp"
	"strings"

	"github.com/ppiankov/vehiclex/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Kind selects the normalization rule applied to a field
type Kind int

const (
	KindCurrency        Kind = iota // "R$ 39.900,00" -> "39900.00"
	KindYearRange                   // "2020/2021" or "2020"
	KindIntegerWithUnit             // "39.000 km" -> "39000"
	KindColor                       // vocabulary, capitalized
	KindFuel                        // vocabulary, fixed label
	KindTransmission                // "Manual", "Automático" or raw text
	KindSmallInteger                // first digit
)

func (k Kind) String() string {
	switch k {
	case KindCurrency:
		return "currency"
	case KindYearRange:
		return "yearRange"
	case KindIntegerWithUnit:
		return "integerWithUnit"
	case KindColor:
		return "vocabulary(colors)"
	case KindFuel:
		return "vocabulary(fuels)"
	case KindTransmission:
		return "enumNormalized(transmission)"
	case KindSmallInteger:
		return "smallInteger"
	default:
		return "unknown"
	}
}

const (
	TransmissionAutomatic = "Automático"
	TransmissionManual    = "Manual"
)

var (
	currencyPattern = regexp.MustCompile(`R\$\s*(\d{1,3}(?:\.\d{3})+|\d+),(\d{2})`)
	canonicalAmount = regexp.MustCompile(`^(\d+)\.(\d{2})$`)
	yearPattern     = regexp.MustCompile(`\b\d{4}(?:\s*/\s*\d{4})?\b`)
	digitGroup      = regexp.MustCompile(`\d{1,3}(?:\.\d{3})+|\d+`)
	portuguese      = language.BrazilianPortuguese
)

// Normalizer applies the per-kind rules. It holds only read-only tables and
// is safe for concurrent use.
type Normalizer struct {
	colors []string
	fuels  []model.FuelKeyword
}

// New creates a normalizer over the given vocabulary
func New(vocab model.Vocabulary) *Normalizer {
	n := &Normalizer{}
	for _, c := range vocab.Colors {
		if c = Fold(c); c != "" {
			n.colors = append(n.colors, c)
		}
	}
	for _, f := range vocab.Fuels {
		keyword := Fold(f.Keyword)
		if keyword == "" || f.Label == "" {
			continue
		}
		n.fuels = append(n.fuels, model.FuelKeyword{Keyword: keyword, Label: f.Label})
	}
	return n
}

// Normalize returns the canonical value of text for kind, or the kind's
// empty value ("0.00" for currency, "" otherwise).
func (n *Normalizer) Normalize(kind Kind, text string) string {
	switch kind {
	case KindCurrency:
		return Currency(text)
	case KindYearRange:
		return Year(text)
	case KindIntegerWithUnit:
		return Mileage(text)
	case KindColor:
		return n.Color(text)
	case KindFuel:
		return n.Fuel(text)
	case KindTransmission:
		return Transmission(text)
	case KindSmallInteger:
		return SmallInteger(text)
	default:
		return ""
	}
}

// Currency converts the first "R$ d.ddd,cc" amount to "dddd.cc"
func Currency(text string) string {
	if m := currencyPattern.FindStringSubmatch(text); m != nil {
		return strings.ReplaceAll(m[1], ".", "") + "." + m[2]
	}
	if canonicalAmount.MatchString(strings.TrimSpace(text)) {
		return strings.TrimSpace(text)
	}
	return model.PriceUnknown
}

// Year returns the first "YYYY/YYYY" or "YYYY" token verbatim
func Year(text string) string {
	return strings.TrimSpace(yearPattern.FindString(text))
}

// Mileage returns the first digit group with thousands dots removed
func Mileage(text string) string {
	return strings.ReplaceAll(digitGroup.FindString(text), ".", "")
}

// Color returns the first vocabulary color contained in text, capitalized
func (n *Normalizer) Color(text string) string {
	folded := Fold(text)
	for _, color := range n.colors {
		if strings.Contains(folded, color) {
			return cases.Title(portuguese).String(color)
		}
	}
	return ""
}

// Fuel returns the label of the first fuel keyword contained in text
func (n *Normalizer) Fuel(text string) string {
	folded := Fold(text)
	for _, fuel := range n.fuels {
		if strings.Contains(folded, fuel.Keyword) {
			return fuel.Label
		}
	}
	return ""
}

// Transmission maps automatic/manual mentions to fixed labels and passes
// anything else through trimmed.
func Transmission(text string) string {
	folded := Fold(text)
	switch {
	case strings.Contains(folded, "autom"):
		return TransmissionAutomatic
	case strings.Contains(folded, "manual"):
		return TransmissionManual
	default:
		return strings.TrimSpace(text)
	}
}

// SmallInteger returns the first ASCII digit in text
func SmallInteger(text string) string {
	for _, r := range text {
		if r >= '0' && r <= '9' {
			return string(r)
		}
	}
	return ""
}

// Fold returns text in NFC form, lower-cased, for containment checks
func Fold(text string) string {
	return cases.Lower(portuguese).String(norm.NFC.String(strings.TrimSpace(text)))
}
