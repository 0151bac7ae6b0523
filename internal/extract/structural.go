package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/vehiclex/internal/document"
	"github.com/ppiankov/vehiclex/internal/model"
	"github.com/ppiankov/vehiclex/internal/normalize"
	"golang.org/x/net/html"
)

// StructuralStrategy reads label/value pairs from keyed info containers.
//
// Each container is consumed by at most one field: the first field, in
// extraction order, that is still unresolved and whose alias appears in the
// container's label.
type StructuralStrategy struct {
	container  string
	label      string
	value      string
	fields     []FieldSpec
	normalizer *normalize.Normalizer
}

// NewStructuralStrategy creates a structural strategy over the given selectors
func NewStructuralStrategy(selectors model.Selectors, fields []FieldSpec, n *normalize.Normalizer) *StructuralStrategy {
	return &StructuralStrategy{
		container:  selectors.InfoContainer,
		label:      selectors.InfoLabel,
		value:      selectors.InfoValue,
		fields:     fields,
		normalizer: n,
	}
}

// Name returns the strategy name
func (s *StructuralStrategy) Name() string {
	return StrategyStructural
}

// Attempt scans containers in document order until one is assigned to field
func (s *StructuralStrategy) Attempt(doc *document.Document, field FieldSpec) Attempt {
	result := Attempt{Strategy: StrategyStructural}
	if doc == nil || s.container == "" || s.label == "" {
		return result
	}

	fields := s.fields
	if !containsField(fields, field.Name) {
		fields = []FieldSpec{field}
	}
	resolved := make(map[string]bool, len(fields))

	doc.Query().Find(s.container).EachWithBreak(func(_ int, container *goquery.Selection) bool {
		label, raw, ok := s.pair(container)
		if !ok {
			return true
		}

		for _, f := range fields {
			if resolved[f.Name] || !f.MatchesLabel(label) {
				continue
			}

			if f.Name == field.Name {
				result = newAttempt(StrategyStructural, s.normalizer, field, raw)
				return false
			}
			if newAttempt(StrategyStructural, s.normalizer, f, raw).OK() {
				resolved[f.Name] = true
			}
			break
		}
		return true
	})

	return result
}

// pair returns the label text and the raw value text of a container
func (s *StructuralStrategy) pair(container *goquery.Selection) (string, string, bool) {
	labelSel := container.Find(s.label).First()
	if labelSel.Length() == 0 {
		return "", "", false
	}
	labelNode := labelSel.Get(0)
	label := document.CleanText(labelSel.Text())
	if label == "" {
		return "", "", false
	}

	var valueSel *goquery.Selection
	if s.value != "" {
		valueSel = container.Find(s.value).FilterFunction(func(_ int, v *goquery.Selection) bool {
			node := v.Get(0)
			return node != labelNode && !isAncestor(labelNode, node)
		}).First()
	}

	var raw string
	if valueSel != nil && valueSel.Length() > 0 {
		raw = document.CleanText(valueSel.Text())
		if isAncestor(valueSel.Get(0), labelNode) {
			raw = strings.Replace(raw, label, "", 1)
		}
	} else {
		raw = strings.Replace(document.CleanText(container.Text()), label, "", 1)
	}

	return label, strings.TrimSpace(raw), true
}

// isAncestor reports whether a is a strict ancestor of n
func isAncestor(a, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}

func containsField(fields []FieldSpec, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
