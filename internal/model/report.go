package model

// Report describes how one page was extracted
type Report struct {
	Path    string       `json:"path"`               // Saved page that was read
	PageURL string       `json:"page_url,omitempty"` // URL the page came from
	Profile string       `json:"profile"`            // Site profile that supplied the selectors
	Fields  []FieldTrace `json:"fields"`             // One trace per field, in extraction order
	Options int          `json:"options"`            // Number of option items found
	Score   Score        `json:"score"`              // Extraction quality
}

// FieldTrace records which strategy resolved a field and from what text
type FieldTrace struct {
	Field    string `json:"field"`
	Resolved bool   `json:"resolved"`
	Strategy string `json:"strategy,omitempty"` // Empty when unresolved
	Raw      string `json:"raw,omitempty"`      // Candidate text before normalization
	Value    string `json:"value,omitempty"`
}

// Score represents the transparent quality breakdown of one extraction
type Score struct {
	Index      int      `json:"index"`      // Overall quality index (0-100)
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal `json:"signals"`    // Diagnostic signals with transparent data
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Formula inputs
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalFieldCoverage  SignalType = "field_coverage"  // Resolved fields ratio
	SignalStrategyMix    SignalType = "strategy_mix"    // Which strategies did the work
	SignalOptions        SignalType = "options"         // Option list presence
	SignalPriceMissing   SignalType = "price_missing"   // No price on the page
	SignalMarkupDrift    SignalType = "markup_drift"    // Structural blocks present but unmatched
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
