package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediguard-triage-server/internal/domain"
)

func TestScaler_ScaleValue(t *testing.T) {
	s := NewScaler(testCatalog(t), testLogger())

	tests := []struct {
		name          string
		biomarker     string
		raw           float64
		wantScaled    float64
		wantSeverity  []domain.WarningSeverity
		wantDirection domain.ComparisonOutcome
	}{
		{
			name:      "Midpoint hemoglobin",
			biomarker: "hemoglobin",
			raw:       14.75,
			// (14.75 - 5) / (22 - 5)
			wantScaled: 9.75 / 17.0,
		},
		{
			name:          "Below normal range",
			biomarker:     "hemoglobin",
			raw:           10.0,
			wantScaled:    5.0 / 17.0,
			wantSeverity:  []domain.WarningSeverity{domain.WarningRangeBreach},
			wantDirection: domain.OutcomeLow,
		},
		{
			name:          "Exactly on critical low bound",
			biomarker:     "hemoglobin",
			raw:           5.0,
			wantScaled:    0,
			wantSeverity:  []domain.WarningSeverity{domain.WarningRangeBreach},
			wantDirection: domain.OutcomeLow,
		},
		{
			name:          "Exactly on critical high bound",
			biomarker:     "hemoglobin",
			raw:           22.0,
			wantScaled:    1,
			wantSeverity:  []domain.WarningSeverity{domain.WarningRangeBreach},
			wantDirection: domain.OutcomeHigh,
		},
		{
			name:          "Below critical low raises both warnings",
			biomarker:     "hemoglobin",
			raw:           3.0,
			wantScaled:    0,
			wantSeverity:  []domain.WarningSeverity{domain.WarningRangeBreach, domain.WarningCriticalBreach},
			wantDirection: domain.OutcomeLow,
		},
		{
			name:          "Above critical high raises both warnings",
			biomarker:     "lactate",
			raw:           25.0,
			wantScaled:    1,
			wantSeverity:  []domain.WarningSeverity{domain.WarningRangeBreach, domain.WarningCriticalBreach},
			wantDirection: domain.OutcomeHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scaled, warnings, err := s.ScaleValue(tt.biomarker, tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScaled, scaled, 1e-9)

			require.Len(t, warnings, len(tt.wantSeverity))
			for i, severity := range tt.wantSeverity {
				assert.Equal(t, severity, warnings[i].Severity)
				assert.Equal(t, tt.wantDirection, warnings[i].Direction)
				assert.Equal(t, tt.biomarker, warnings[i].BiomarkerID)
				assert.Equal(t, tt.raw, warnings[i].Value)
			}
		})
	}
}

func TestScaler_ScaleValue_UnknownBiomarker(t *testing.T) {
	s := NewScaler(testCatalog(t), testLogger())

	_, _, err := s.ScaleValue("mystery_marker", 1.0)
	require.Error(t, err)

	var unknownErr *domain.UnknownCatalogEntryError
	assert.True(t, errors.As(err, &unknownErr))
}

func TestScaler_Scale_NormalPanel(t *testing.T) {
	s := NewScaler(testCatalog(t), testLogger())

	result, err := s.Scale(midpointValues(t))
	require.NoError(t, err)

	assert.Empty(t, result.Warnings)
	assert.Len(t, result.Scaled, 24)
	assert.Len(t, result.Summary, 24)

	for i, v := range result.Scaled {
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
		assert.LessOrEqual(t, v, 1.0, "index %d", i)
	}

	// Summary follows canonical catalog order.
	cat := testCatalog(t)
	for i, id := range cat.Order() {
		assert.Equal(t, id, result.Summary[i].ID)
	}
}

func TestScaler_Scale_AbnormalPanel(t *testing.T) {
	s := NewScaler(testCatalog(t), testLogger())

	result, err := s.Scale(sepsisValues(t))
	require.NoError(t, err)

	require.Len(t, result.Warnings, 4)
	breached := make(map[string]domain.Warning, len(result.Warnings))
	for _, w := range result.Warnings {
		breached[w.BiomarkerID] = w
	}
	for _, id := range []string{"procalcitonin", "lactate", "wbc_count", "crp"} {
		w, ok := breached[id]
		require.True(t, ok, id)
		assert.Equal(t, domain.WarningRangeBreach, w.Severity)
		assert.Equal(t, domain.OutcomeHigh, w.Direction)
	}
}

func TestScaler_Scale_MissingValue(t *testing.T) {
	s := NewScaler(testCatalog(t), testLogger())

	values := midpointValues(t)
	delete(values, "glucose")

	_, err := s.Scale(values)
	require.Error(t, err)

	var missingErr *domain.MissingBiomarkersError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"glucose"}, missingErr.Missing)
}
