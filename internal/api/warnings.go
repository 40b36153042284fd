package api

import (
	"fmt"

	"github.com/mediguard-triage-server/internal/domain"
)

// renderWarnings converts structured scaling warnings into the
// clinician-facing message strings carried by the response envelope.
// Critical breaches call out the danger; range breaches cite the violated
// bound.
func (s *Server) renderWarnings(warnings []domain.Warning) []string {
	messages := make([]string, 0, len(warnings))
	for _, w := range warnings {
		bio, ok := s.catalog.BiomarkerByID(w.BiomarkerID)
		if !ok {
			continue
		}
		messages = append(messages, renderWarning(bio, w))
	}
	return messages
}

func renderWarning(bio domain.Biomarker, w domain.Warning) string {
	switch w.Severity {
	case domain.WarningCriticalBreach:
		side := "HIGH"
		if w.Direction == domain.OutcomeLow {
			side = "LOW"
		}
		return fmt.Sprintf("CRITICAL: %s (%s) is dangerously %s: %g %s",
			bio.Name, bio.Code, side, w.Value, w.Unit)

	default:
		if w.Direction == domain.OutcomeLow {
			return fmt.Sprintf("WARNING: %s (%s) is BELOW normal range (%g %s < %g %s)",
				bio.Name, bio.Code, w.Value, w.Unit, bio.NormalRange.Min, bio.Unit)
		}
		return fmt.Sprintf("WARNING: %s (%s) is ABOVE normal range (%g %s > %g %s)",
			bio.Name, bio.Code, w.Value, w.Unit, bio.NormalRange.Max, bio.Unit)
	}
}
