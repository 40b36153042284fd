package service

import "github.com/mediguard-triage-server/internal/domain"

// RuleKind selects the predicate a threshold rule evaluates.
type RuleKind string

const (
	// RuleAbove fires when value > Cutoff.
	RuleAbove RuleKind = "above"
	// RuleBelow fires when value < Cutoff.
	RuleBelow RuleKind = "below"
	// RuleOutside fires when value < Lower or value > Upper.
	RuleOutside RuleKind = "outside"
	// RuleDeviates fires when |value - Center| > Delta.
	RuleDeviates RuleKind = "deviates"
	// RuleEitherAbove fires when either biomarker exceeds Cutoff.
	RuleEitherAbove RuleKind = "either_above"
	// RuleRatioBelow fires when Biomarker / max(Second, Floor) < Cutoff.
	// The floor substitution only guards an effectively-zero denominator;
	// near-zero denominators above the floor are intentionally untouched to
	// keep parity with the validated clinical cutoffs.
	RuleRatioBelow RuleKind = "ratio_below"
)

// Rule is a single independent threshold predicate over raw values. When
// satisfied it contributes Weight to its category's score. Rules are not
// mutually exclusive; weights accumulate.
type Rule struct {
	Biomarker string
	Second    string // second biomarker: RuleEitherAbove alternative, RuleRatioBelow denominator
	Kind      RuleKind
	Cutoff    float64
	Lower     float64
	Upper     float64
	Center    float64
	Delta     float64
	Floor     float64
	Weight    float64
}

// Evaluate reports whether the rule fires against a complete raw value set.
func (r Rule) Evaluate(values domain.RawValues) bool {
	v := values[r.Biomarker]

	switch r.Kind {
	case RuleAbove:
		return v > r.Cutoff
	case RuleBelow:
		return v < r.Cutoff
	case RuleOutside:
		return v < r.Lower || v > r.Upper
	case RuleDeviates:
		diff := v - r.Center
		if diff < 0 {
			diff = -diff
		}
		return diff > r.Delta
	case RuleEitherAbove:
		return v > r.Cutoff || values[r.Second] > r.Cutoff
	case RuleRatioBelow:
		den := values[r.Second]
		if den <= r.Floor {
			den = r.Floor
		}
		return v/den < r.Cutoff
	default:
		return false
	}
}

// References returns every biomarker id the rule reads, for catalog
// validation at scorer construction.
func (r Rule) References() []string {
	if r.Second != "" {
		return []string{r.Biomarker, r.Second}
	}
	return []string{r.Biomarker}
}

// CategoryRules binds an ordered rule list to one disease category.
type CategoryRules struct {
	CategoryID string
	Rules      []Rule
}

// DefaultRules returns the built-in clinical threshold table. Each tuple is
// independently reviewable: (biomarker reference(s), predicate, weight).
// The designated normal category deliberately has no rules; it only wins
// through the zero-evidence fallback.
func DefaultRules() []CategoryRules {
	return []CategoryRules{
		{CategoryID: "sepsis", Rules: []Rule{
			{Biomarker: "procalcitonin", Kind: RuleAbove, Cutoff: 2.0, Weight: 0.4},
			{Biomarker: "lactate", Kind: RuleAbove, Cutoff: 4.0, Weight: 0.3},
			{Biomarker: "wbc_count", Kind: RuleOutside, Lower: 4.0, Upper: 12.0, Weight: 0.2},
			{Biomarker: "crp", Kind: RuleAbove, Cutoff: 100, Weight: 0.1},
		}},
		{CategoryID: "cardiac_event", Rules: []Rule{
			{Biomarker: "troponin", Kind: RuleAbove, Cutoff: 0.04, Weight: 0.5},
			{Biomarker: "bnp", Kind: RuleAbove, Cutoff: 400, Weight: 0.3},
			{Biomarker: "ldh", Kind: RuleAbove, Cutoff: 500, Weight: 0.2},
		}},
		{CategoryID: "renal_failure", Rules: []Rule{
			{Biomarker: "creatinine", Kind: RuleAbove, Cutoff: 2.0, Weight: 0.4},
			{Biomarker: "bun", Kind: RuleAbove, Cutoff: 40, Weight: 0.3},
			{Biomarker: "potassium", Kind: RuleAbove, Cutoff: 5.5, Weight: 0.2},
			{Biomarker: "creatinine", Second: "bun", Kind: RuleRatioBelow, Cutoff: 0.05, Floor: 1.0, Weight: 0.1},
		}},
		{CategoryID: "liver_disease", Rules: []Rule{
			{Biomarker: "alt", Second: "ast", Kind: RuleEitherAbove, Cutoff: 200, Weight: 0.4},
			{Biomarker: "bilirubin_total", Kind: RuleAbove, Cutoff: 2.0, Weight: 0.3},
			{Biomarker: "albumin", Kind: RuleBelow, Cutoff: 3.0, Weight: 0.2},
			{Biomarker: "inr", Kind: RuleAbove, Cutoff: 1.5, Weight: 0.1},
		}},
		{CategoryID: "metabolic_disorder", Rules: []Rule{
			{Biomarker: "glucose", Kind: RuleOutside, Lower: 60, Upper: 200, Weight: 0.4},
			{Biomarker: "sodium", Kind: RuleDeviates, Center: 140, Delta: 10, Weight: 0.3},
			{Biomarker: "calcium", Kind: RuleOutside, Lower: 7.0, Upper: 11.0, Weight: 0.3},
		}},
		{CategoryID: "coagulopathy", Rules: []Rule{
			{Biomarker: "inr", Kind: RuleAbove, Cutoff: 2.0, Weight: 0.4},
			{Biomarker: "d_dimer", Kind: RuleAbove, Cutoff: 2.0, Weight: 0.3},
			{Biomarker: "platelet_count", Kind: RuleBelow, Cutoff: 100, Weight: 0.3},
		}},
		{CategoryID: "anemia", Rules: []Rule{
			{Biomarker: "hemoglobin", Kind: RuleBelow, Cutoff: 10.0, Weight: 0.6},
			{Biomarker: "hemoglobin", Kind: RuleBelow, Cutoff: 7.0, Weight: 0.4},
		}},
		{CategoryID: "infection", Rules: []Rule{
			{Biomarker: "wbc_count", Kind: RuleAbove, Cutoff: 11.0, Weight: 0.3},
			{Biomarker: "crp", Kind: RuleAbove, Cutoff: 10, Weight: 0.3},
			{Biomarker: "esr", Kind: RuleAbove, Cutoff: 30, Weight: 0.2},
			{Biomarker: "procalcitonin", Kind: RuleAbove, Cutoff: 0.25, Weight: 0.2},
		}},
	}
}
