package service

import (
	"github.com/sirupsen/logrus"

	"github.com/mediguard-triage-server/internal/catalog"
	"github.com/mediguard-triage-server/internal/domain"
)

// Scorer evaluates the per-category threshold rule table against raw values
// and normalizes the accumulated scores into a probability distribution.
type Scorer struct {
	catalog *catalog.Catalog
	logger  *logrus.Logger
	rules   map[string][]Rule
}

// ScoreResult carries the normalized distribution (in catalog category
// order), the winning category, and its probability as the confidence.
type ScoreResult struct {
	Probabilities []domain.CategoryProbability
	Winner        string
	Confidence    float64
}

// NewScorer creates a scorer with the built-in clinical rule table.
func NewScorer(cat *catalog.Catalog, logger *logrus.Logger) (*Scorer, error) {
	return NewScorerWithRules(cat, logger, DefaultRules())
}

// NewScorerWithRules creates a scorer with a custom rule table. Every rule
// must reference catalog biomarkers and a catalog category; violations are
// configuration errors and fail construction.
func NewScorerWithRules(cat *catalog.Catalog, logger *logrus.Logger, table []CategoryRules) (*Scorer, error) {
	rules := make(map[string][]Rule, len(table))
	for _, entry := range table {
		if _, ok := cat.CategoryByID(entry.CategoryID); !ok {
			return nil, &domain.UnknownCatalogEntryError{ID: entry.CategoryID}
		}
		for _, rule := range entry.Rules {
			for _, id := range rule.References() {
				if _, ok := cat.BiomarkerByID(id); !ok {
					return nil, &domain.UnknownCatalogEntryError{ID: id}
				}
			}
		}
		rules[entry.CategoryID] = entry.Rules
	}

	return &Scorer{catalog: cat, logger: logger, rules: rules}, nil
}

// Score runs the rule interpreter over all categories and normalizes.
// When no predicate fires anywhere, the designated normal category receives
// probability 1.0 and every other category 0.0; this is the defined
// zero-evidence fallback, not an error. Ties at the top are broken by
// catalog category order.
func (s *Scorer) Score(values domain.RawValues) (*ScoreResult, error) {
	categories := s.catalog.Categories()

	scores := make([]float64, len(categories))
	var total float64
	fired := 0
	for i, cat := range categories {
		for _, rule := range s.rules[cat.ID] {
			if rule.Evaluate(values) {
				scores[i] += rule.Weight
				fired++
			}
		}
		total += scores[i]
	}

	result := &ScoreResult{
		Probabilities: make([]domain.CategoryProbability, len(categories)),
	}

	normalID := s.catalog.NormalCategoryID()
	for i, cat := range categories {
		var p float64
		if total > 0 {
			p = scores[i] / total
		} else if cat.ID == normalID {
			p = 1.0
		}
		result.Probabilities[i] = domain.CategoryProbability{Category: cat.ID, Probability: p}
	}

	// Catalog order iteration with strict > keeps the documented tie-break:
	// the first category in canonical order wins.
	for _, cp := range result.Probabilities {
		if result.Winner == "" || cp.Probability > result.Confidence {
			result.Winner = cp.Category
			result.Confidence = cp.Probability
		}
	}

	s.logger.WithFields(logrus.Fields{
		"winner":      result.Winner,
		"confidence":  result.Confidence,
		"rules_fired": fired,
	}).Debug("Completed threshold rule evaluation")

	return result, nil
}
