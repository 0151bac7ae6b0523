package extract

import (
	"github.com/ppiankov/vehiclex/internal/document"
	"github.com/ppiankov/vehiclex/internal/normalize"
)

// Strategy names
const (
	StrategyStructural = "structural"
	StrategyLabeled    = "labeled-text"
	StrategyFullText   = "full-text"
)

// Strategy is one way of locating a field's value on a page.
// Implementations never fail: no match is an empty Attempt.
type Strategy interface {
	// Name returns the strategy name
	Name() string

	// Attempt tries to resolve field from doc
	Attempt(doc *document.Document, field FieldSpec) Attempt
}

// Attempt is the transient outcome of one strategy for one field
type Attempt struct {
	Strategy string `json:"strategy"`
	Raw      string `json:"raw,omitempty"`   // Matched substring before normalization
	Value    string `json:"value,omitempty"` // Canonical value, empty when unresolved
}

// OK reports whether the attempt produced a value
func (a Attempt) OK() bool {
	return a.Value != ""
}

// newAttempt normalizes raw for field. A value equal to the field's default
// counts as no value.
func newAttempt(strategy string, n *normalize.Normalizer, field FieldSpec, raw string) Attempt {
	value := n.Normalize(field.Kind, raw)
	if value == field.Default() {
		value = ""
	}
	return Attempt{Strategy: strategy, Raw: raw, Value: value}
}
