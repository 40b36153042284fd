package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverity_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		want     bool
	}{
		{"Critical", SeverityCritical, true},
		{"High", SeverityHigh, true},
		{"Moderate", SeverityModerate, true},
		{"Low", SeverityLow, true},
		{"Empty", Severity(""), false},
		{"Unknown", Severity("catastrophic"), false},
		{"Wrong case", Severity("Critical"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.severity.IsValid())
			assert.Equal(t, string(tt.severity), tt.severity.String())
		})
	}
}

func TestComparisonOutcome(t *testing.T) {
	tests := []struct {
		name    string
		outcome ComparisonOutcome
		valid   bool
		arrow   string
	}{
		{"Low", OutcomeLow, true, "↓"},
		{"Normal", OutcomeNormal, true, "→"},
		{"High", OutcomeHigh, true, "↑"},
		{"Empty", ComparisonOutcome(""), false, "→"},
		{"Unknown", ComparisonOutcome("ELEVATED"), false, "→"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.outcome.IsValid())
			assert.Equal(t, tt.arrow, tt.outcome.Arrow())
		})
	}
}

func TestCompareToRange(t *testing.T) {
	r := NormalRange{Min: 4.0, Max: 11.0}

	tests := []struct {
		name  string
		value float64
		want  ComparisonOutcome
	}{
		{"Below minimum", 3.9, OutcomeLow},
		{"At minimum", 4.0, OutcomeNormal},
		{"Inside", 7.5, OutcomeNormal},
		{"At maximum", 11.0, OutcomeNormal},
		{"Above maximum", 11.1, OutcomeHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareToRange(tt.value, r))
		})
	}
}

func TestInputFormat_IsValid(t *testing.T) {
	assert.True(t, FormatJSON.IsValid())
	assert.True(t, FormatKeyValue.IsValid())
	assert.True(t, FormatPositional.IsValid())
	assert.False(t, InputFormat("yaml").IsValid())
	assert.False(t, InputFormat("").IsValid())
}

func TestNormalRange_Midpoint(t *testing.T) {
	assert.InDelta(t, 14.75, NormalRange{Min: 12.0, Max: 17.5}.Midpoint(), 1e-9)
	assert.InDelta(t, 0.125, NormalRange{Min: 0.0, Max: 0.25}.Midpoint(), 1e-9)
}
