// Package extract resolves vehicle attributes from a detail page by running
// an ordered cascade of extraction strategies per field.
package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/vehiclex/internal/model"
	"github.com/ppiankov/vehiclex/internal/normalize"
)

// Field names, in extraction order
const (
	FieldPrice        = "price"
	FieldYear         = "year"
	FieldMileage      = "mileage"
	FieldColor        = "color"
	FieldTransmission = "transmission"
	FieldFuel         = "fuel"
	FieldDoorCount    = "doorCount"
)

var fieldKinds = []struct {
	name string
	kind normalize.Kind
}{
	{FieldPrice, normalize.KindCurrency},
	{FieldYear, normalize.KindYearRange},
	{FieldMileage, normalize.KindIntegerWithUnit},
	{FieldColor, normalize.KindColor},
	{FieldTransmission, normalize.KindTransmission},
	{FieldFuel, normalize.KindFuel},
	{FieldDoorCount, normalize.KindSmallInteger},
}

// FieldSpec describes one target field: its label aliases and value kind
type FieldSpec struct {
	Name    string
	Aliases []string // Folded, in match order
	Kind    normalize.Kind

	labelPatterns []*regexp.Regexp
	labelOnly     []*regexp.Regexp // Parallel to labelPatterns
}

// NewField builds a field spec, folding aliases and compiling the
// label:value line patterns used by the labeled-text strategy.
func NewField(name string, kind normalize.Kind, aliases ...string) FieldSpec {
	f := FieldSpec{Name: name, Kind: kind}
	for _, alias := range aliases {
		folded := normalize.Fold(alias)
		if folded == "" {
			continue
		}
		f.Aliases = append(f.Aliases, folded)
		quoted := regexp.QuoteMeta(folded)
		f.labelPatterns = append(f.labelPatterns, regexp.MustCompile(
			`(?i)(?:^|[^\p{L}\p{N}])`+quoted+`(?:[^\p{L}\p{N}]|$)\s*[:\-–—]?\s*(.*)$`,
		))
		f.labelOnly = append(f.labelOnly, regexp.MustCompile(
			`(?i)^\s*`+quoted+`\s*[:\-–—]?\s*$`,
		))
	}
	return f
}

// Fields returns the seven vehicle fields in extraction order. Aliases are
// looked up by field name; missing entries fall back to the defaults.
func Fields(aliases map[string][]string) []FieldSpec {
	defaults := model.DefaultAliases()

	fields := make([]FieldSpec, 0, len(fieldKinds))
	for _, fk := range fieldKinds {
		names := lookupAliases(aliases, fk.name)
		if len(names) == 0 {
			names = defaults[fk.name]
		}
		fields = append(fields, NewField(fk.name, fk.kind, names...))
	}
	return fields
}

// lookupAliases finds the aliases of a field. Config loaders lower-case map
// keys, so "doorcount" matches "doorCount".
func lookupAliases(aliases map[string][]string, name string) []string {
	if names, ok := aliases[name]; ok {
		return names
	}
	for key, names := range aliases {
		if strings.EqualFold(key, name) {
			return names
		}
	}
	return nil
}

// Default returns the value a field keeps when nothing is extracted
func (f FieldSpec) Default() string {
	if f.Kind == normalize.KindCurrency {
		return model.PriceUnknown
	}
	return ""
}

// MatchesLabel reports whether a label contains any alias of the field
func (f FieldSpec) MatchesLabel(label string) bool {
	folded := normalize.Fold(label)
	if folded == "" {
		return false
	}
	for _, alias := range f.Aliases {
		if strings.Contains(folded, alias) {
			return true
		}
	}
	return false
}

func setField(details *model.VehicleDetails, name, value string) {
	switch name {
	case FieldPrice:
		details.Price = value
	case FieldYear:
		details.Year = value
	case FieldMileage:
		details.Mileage = value
	case FieldColor:
		details.Color = value
	case FieldTransmission:
		details.Transmission = value
	case FieldFuel:
		details.Fuel = value
	case FieldDoorCount:
		details.DoorCount = value
	}
}
