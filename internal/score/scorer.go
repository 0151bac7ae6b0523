// Package score rates how trustworthy an extraction is from its field traces.
package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/vehiclex/internal/extract"
	"github.com/ppiankov/vehiclex/internal/model"
)

// Strategy weights: a value read from a labeled block is worth more than one
// found anywhere in the page text.
var strategyWeights = map[string]float64{
	extract.StrategyStructural: 1.0,
	extract.StrategyLabeled:    0.7,
	extract.StrategyFullText:   0.4,
}

// Scorer calculates the quality index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores one extraction from its field traces and option count
func (s *Scorer) Calculate(fields []model.FieldTrace, options int) model.Score {
	var signals []model.Signal

	// 1. Field coverage (0-60 points)
	coverageScore, coverageSignal := s.calculateCoverage(fields)
	signals = append(signals, coverageSignal)

	// 2. Strategy quality (0-30 points)
	strategyScore, strategySignal := s.calculateStrategyMix(fields)
	signals = append(signals, strategySignal)

	// 3. Options (0-10 points)
	optionsScore, optionsSignal := s.calculateOptions(options)
	signals = append(signals, optionsSignal)

	totalScore := coverageScore + strategyScore + optionsScore

	// 4. Missing price (penalty)
	priceMissing := !resolved(fields, extract.FieldPrice)
	if priceMissing {
		signals = append(signals, model.Signal{
			Type:        model.SignalPriceMissing,
			Severity:    model.SeverityCritical,
			Description: "No price found; record carries the 0.00 sentinel",
		})
		totalScore -= 10
		if totalScore < 0 {
			totalScore = 0
		}
	}

	// 5. Layout drift
	if driftSignal, drift := s.detectMarkupDrift(fields); drift {
		signals = append(signals, driftSignal)
	}

	return model.Score{
		Index:      totalScore,
		Confidence: s.determineConfidence(totalScore, priceMissing),
		Signals:    signals,
	}
}

// calculateCoverage scores the share of resolved fields (0-60 points)
func (s *Scorer) calculateCoverage(fields []model.FieldTrace) (int, model.Signal) {
	if len(fields) == 0 {
		return 0, model.Signal{
			Type:        model.SignalFieldCoverage,
			Severity:    model.SeverityCritical,
			Description: "No fields were traced",
		}
	}

	count := 0
	var missing []string
	for _, f := range fields {
		if f.Resolved {
			count++
		} else {
			missing = append(missing, f.Field)
		}
	}

	ratio := float64(count) / float64(len(fields))
	score := int(math.Round(ratio * 60))

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 1 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalFieldCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d fields resolved", count, len(fields)),
		Data: map[string]interface{}{
			"resolved": count,
			"total":    len(fields),
			"missing":  missing,
			"formula":  "(resolved / total) * 60",
			"points":   score,
		},
	}
}

// calculateStrategyMix scores how the resolved fields were found (0-30 points)
func (s *Scorer) calculateStrategyMix(fields []model.FieldTrace) (int, model.Signal) {
	counts := map[string]int{}
	weight := 0.0
	resolvedCount := 0
	for _, f := range fields {
		if !f.Resolved {
			continue
		}
		resolvedCount++
		counts[f.Strategy]++
		weight += strategyWeights[f.Strategy]
	}

	if resolvedCount == 0 {
		return 0, model.Signal{
			Type:        model.SignalStrategyMix,
			Severity:    model.SeverityWarning,
			Description: "No strategy resolved any field",
		}
	}

	avg := weight / float64(resolvedCount)
	score := int(math.Round(avg * 30))

	severity := model.SeverityInfo
	if counts[extract.StrategyFullText]*2 > resolvedCount {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:     model.SignalStrategyMix,
		Severity: severity,
		Description: fmt.Sprintf("%d structural, %d labeled-text, %d full-text",
			counts[extract.StrategyStructural], counts[extract.StrategyLabeled], counts[extract.StrategyFullText]),
		Data: map[string]interface{}{
			"counts":         counts,
			"average_weight": math.Round(avg*100) / 100,
			"formula":        "avg(weight) * 30, structural=1.0 labeled=0.7 full-text=0.4",
			"points":         score,
		},
	}
}

// calculateOptions scores the presence of an option list (0-10 points)
func (s *Scorer) calculateOptions(options int) (int, model.Signal) {
	if options == 0 {
		return 0, model.Signal{
			Type:        model.SignalOptions,
			Severity:    model.SeverityInfo,
			Description: "No option list found",
		}
	}
	return 10, model.Signal{
		Type:        model.SignalOptions,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d options listed", options),
		Data:        map[string]interface{}{"count": options},
	}
}

// detectMarkupDrift flags pages where fields resolve but none from a
// structural block, which usually means the site changed its layout
func (s *Scorer) detectMarkupDrift(fields []model.FieldTrace) (model.Signal, bool) {
	resolvedCount := 0
	for _, f := range fields {
		if !f.Resolved {
			continue
		}
		if f.Strategy == extract.StrategyStructural {
			return model.Signal{}, false
		}
		resolvedCount++
	}
	if resolvedCount == 0 {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalMarkupDrift,
		Severity:    model.SeverityWarning,
		Description: "No field came from a structural block; selectors may be out of date",
		Data:        map[string]interface{}{"resolved_without_structure": resolvedCount},
	}, true
}

// determineConfidence determines the confidence level based on the score
func (s *Scorer) determineConfidence(score int, priceMissing bool) string {
	switch {
	case score >= 75 && !priceMissing:
		return "high"
	case score >= 45:
		return "medium"
	default:
		return "low"
	}
}

func resolved(fields []model.FieldTrace, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return f.Resolved
		}
	}
	return false
}
