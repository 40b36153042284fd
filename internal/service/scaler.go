package service

import (
	"github.com/sirupsen/logrus"

	"github.com/mediguard-triage-server/internal/catalog"
	"github.com/mediguard-triage-server/internal/domain"
)

// Scaler converts raw biomarker values into the bounded [0,1] vector used
// for display and downstream consumers, and raises range and critical
// breach warnings. The two checks are independent and may both fire for the
// same value; they are never merged or suppressed.
type Scaler struct {
	catalog *catalog.Catalog
	logger  *logrus.Logger
}

// NewScaler creates a new range scaler bound to a catalog.
func NewScaler(cat *catalog.Catalog, logger *logrus.Logger) *Scaler {
	return &Scaler{catalog: cat, logger: logger}
}

// ScaleValue scales a single raw value using min-max scaling anchored on the
// biomarker's critical range, clamped to [0,1], and returns any warnings.
// The critical-breach check uses strict inequalities: a value exactly on a
// critical bound scales to 0 or 1 without warning critically.
func (s *Scaler) ScaleValue(biomarkerID string, raw float64) (float64, []domain.Warning, error) {
	b, ok := s.catalog.BiomarkerByID(biomarkerID)
	if !ok {
		return 0, nil, &domain.UnknownCatalogEntryError{ID: biomarkerID}
	}

	var warnings []domain.Warning
	switch {
	case raw < b.NormalRange.Min:
		warnings = append(warnings, domain.Warning{
			BiomarkerID: b.ID, Severity: domain.WarningRangeBreach,
			Direction: domain.OutcomeLow, Value: raw, Unit: b.Unit,
		})
	case raw > b.NormalRange.Max:
		warnings = append(warnings, domain.Warning{
			BiomarkerID: b.ID, Severity: domain.WarningRangeBreach,
			Direction: domain.OutcomeHigh, Value: raw, Unit: b.Unit,
		})
	}

	switch {
	case raw < b.CriticalLow:
		warnings = append(warnings, domain.Warning{
			BiomarkerID: b.ID, Severity: domain.WarningCriticalBreach,
			Direction: domain.OutcomeLow, Value: raw, Unit: b.Unit,
		})
	case raw > b.CriticalHigh:
		warnings = append(warnings, domain.Warning{
			BiomarkerID: b.ID, Severity: domain.WarningCriticalBreach,
			Direction: domain.OutcomeHigh, Value: raw, Unit: b.Unit,
		})
	}

	scaled := (raw - b.CriticalLow) / b.CriticalSpan()
	scaled = clamp01(scaled)

	return scaled, warnings, nil
}

// Scale scales a complete raw value set into the canonical-order vector,
// collecting all warnings and the per-biomarker display summary.
func (s *Scaler) Scale(values domain.RawValues) (*domain.ScalingResult, error) {
	biomarkers := s.catalog.Biomarkers()

	result := &domain.ScalingResult{
		Scaled:   make([]float64, 0, len(biomarkers)),
		Warnings: []domain.Warning{},
		Summary:  make([]domain.BiomarkerSummary, 0, len(biomarkers)),
	}

	for _, b := range biomarkers {
		raw, ok := values[b.ID]
		if !ok {
			return nil, domain.NewMissingBiomarkersError([]string{b.ID})
		}

		scaled, warnings, err := s.ScaleValue(b.ID, raw)
		if err != nil {
			return nil, err
		}

		result.Scaled = append(result.Scaled, scaled)
		result.Warnings = append(result.Warnings, warnings...)
		result.Summary = append(result.Summary, domain.BiomarkerSummary{
			ID:          b.ID,
			Name:        b.Name,
			Code:        b.Code,
			RawValue:    raw,
			Unit:        b.Unit,
			ScaledValue: roundTo(scaled, 4),
			NormalRange: b.NormalRange,
		})
	}

	if len(result.Warnings) > 0 {
		s.logger.WithFields(logrus.Fields{
			"warnings": len(result.Warnings),
		}).Debug("Abnormal biomarker values detected during scaling")
	}

	return result, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
