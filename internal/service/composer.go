package service

import (
	"strconv"
	"strings"

	"github.com/mediguard-triage-server/internal/domain"
)

// normalExplanation is the fixed text used when the designated normal
// category wins.
const normalExplanation = "All biomarkers are within normal ranges. No significant abnormalities detected."

// maxExplanationFindings caps the key-findings clause at the three
// highest-ranked biomarkers.
const maxExplanationFindings = 3

// ComposeExplanation renders a deterministic clinician-facing summary for a
// prediction. For any non-normal category it lists the top-ranked key
// findings as "CODE is STATUS (arrow value unit)" and appends the category
// description; with no key findings the clause is omitted entirely.
func ComposeExplanation(category domain.DiseaseCategory, normalID string, key []domain.KeyBiomarker) string {
	if category.ID == normalID {
		return normalExplanation
	}
	if len(key) > maxExplanationFindings {
		key = key[:maxExplanationFindings]
	}

	var b strings.Builder
	b.WriteString("Prediction indicates ")
	b.WriteString(category.Name)
	b.WriteString(". ")
	if len(key) > 0 {
		b.WriteString("Key findings: ")
		for i, kb := range key {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(kb.Code)
			b.WriteString(" is ")
			b.WriteString(string(kb.Status))
			b.WriteString(" (")
			b.WriteString(kb.Direction)
			b.WriteString(" ")
			b.WriteString(formatValue(kb.Value))
			b.WriteString(" ")
			b.WriteString(kb.Unit)
			b.WriteString(")")
		}
		b.WriteString(". ")
	}
	b.WriteString(category.Description)
	return b.String()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
