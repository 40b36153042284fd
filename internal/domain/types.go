// Package domain contains the core business entities and types for
// biomarker-based disease triage: the biomarker catalog model, scaled values,
// threshold scoring results, and the enumerations shared by every component.
package domain

import "errors"

// Severity represents the clinical severity attached to a disease category.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
)

// IsValid validates that the severity is one of the known levels.
// Only valid severities may be served to clinical consumers.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityModerate, SeverityLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// ComparisonOutcome classifies a raw value against its normal range.
// It replaces the stringly-typed HIGH/LOW/NORMAL values and directional
// arrows with a single three-variant type.
type ComparisonOutcome string

const (
	OutcomeLow    ComparisonOutcome = "LOW"
	OutcomeNormal ComparisonOutcome = "NORMAL"
	OutcomeHigh   ComparisonOutcome = "HIGH"
)

// IsValid validates the comparison outcome.
func (o ComparisonOutcome) IsValid() bool {
	switch o {
	case OutcomeLow, OutcomeNormal, OutcomeHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the outcome.
func (o ComparisonOutcome) String() string {
	return string(o)
}

// Arrow returns the directional glyph used in clinical summaries.
func (o ComparisonOutcome) Arrow() string {
	switch o {
	case OutcomeLow:
		return "↓"
	case OutcomeHigh:
		return "↑"
	default:
		return "→"
	}
}

// CompareToRange classifies a raw value against a normal range.
func CompareToRange(value float64, r NormalRange) ComparisonOutcome {
	switch {
	case value < r.Min:
		return OutcomeLow
	case value > r.Max:
		return OutcomeHigh
	default:
		return OutcomeNormal
	}
}

// WarningSeverity distinguishes the two independent breach checks.
type WarningSeverity string

const (
	WarningRangeBreach    WarningSeverity = "range_breach"
	WarningCriticalBreach WarningSeverity = "critical_breach"
)

// String returns the string representation of the warning severity.
func (w WarningSeverity) String() string {
	return string(w)
}

// InputFormat identifies one of the supported input syntaxes.
type InputFormat string

const (
	FormatJSON       InputFormat = "json"
	FormatKeyValue   InputFormat = "key_value"
	FormatPositional InputFormat = "csv"
)

// IsValid validates the input format.
func (f InputFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatKeyValue, FormatPositional:
		return true
	default:
		return false
	}
}

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")
