package service

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/mediguard-triage-server/internal/catalog"
	"github.com/mediguard-triage-server/internal/domain"
)

// maxKeyBiomarkers caps how many ranked findings a prediction reports.
const maxKeyBiomarkers = 5

// Ranker selects the biomarkers most relevant to a predicted category and
// orders them by how far they deviate from the normal midpoint.
type Ranker struct {
	catalog *catalog.Catalog
	logger  *logrus.Logger
}

func NewRanker(cat *catalog.Catalog, logger *logrus.Logger) *Ranker {
	return &Ranker{catalog: cat, logger: logger}
}

// Rank walks the category's relevance list in order, annotates each present
// biomarker with its direction against the normal range and its relative
// deviation from the midpoint, then returns the top entries by deviation.
// Relevance ids absent from the input are skipped. The sort is stable, so
// equal deviations keep relevance-list order.
func (r *Ranker) Rank(categoryID string, values domain.RawValues) ([]domain.KeyBiomarker, error) {
	category, ok := r.catalog.CategoryByID(categoryID)
	if !ok {
		return nil, &domain.UnknownCatalogEntryError{ID: categoryID}
	}

	ranked := make([]domain.KeyBiomarker, 0, len(category.Relevance))
	for _, id := range category.Relevance {
		raw, present := values[id]
		if !present {
			continue
		}
		bio, ok := r.catalog.BiomarkerByID(id)
		if !ok {
			return nil, &domain.UnknownCatalogEntryError{ID: id}
		}

		outcome := domain.CompareToRange(raw, bio.NormalRange)
		mid := bio.NormalRange.Midpoint()
		deviation := raw - mid
		if deviation < 0 {
			deviation = -deviation
		}

		ranked = append(ranked, domain.KeyBiomarker{
			ID:        bio.ID,
			Name:      bio.Name,
			Code:      bio.Code,
			Value:     raw,
			Unit:      bio.Unit,
			Direction: outcome.Arrow(),
			Status:    outcome,
			Deviation: roundTo(deviation/mid, 2),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Deviation > ranked[j].Deviation
	})

	if len(ranked) > maxKeyBiomarkers {
		ranked = ranked[:maxKeyBiomarkers]
	}

	r.logger.WithFields(logrus.Fields{
		"category":       categoryID,
		"key_biomarkers": len(ranked),
	}).Debug("Ranked key biomarkers")

	return ranked, nil
}
