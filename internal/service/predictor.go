package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mediguard-triage-server/internal/catalog"
	"github.com/mediguard-triage-server/internal/domain"
)

// Predictor wires the triage pipeline together: parse, scale, score, rank,
// compose, then attach supporting references. It is the single entry point
// behind the API layer.
type Predictor struct {
	catalog    *catalog.Catalog
	normalizer *Normalizer
	scaler     *Scaler
	scorer     *Scorer
	ranker     *Ranker
	references domain.ReferenceProvider
	logger     *logrus.Logger
	maxRefs    int
}

var _ domain.TriagePredictor = (*Predictor)(nil)

// NewPredictor builds the full pipeline over one catalog. The reference
// provider may be nil, in which case predictions carry no references.
func NewPredictor(cat *catalog.Catalog, refs domain.ReferenceProvider, maxRefs int, logger *logrus.Logger) (*Predictor, error) {
	scorer, err := NewScorer(cat, logger)
	if err != nil {
		return nil, err
	}

	return &Predictor{
		catalog:    cat,
		normalizer: NewNormalizer(cat, logger),
		scaler:     NewScaler(cat, logger),
		scorer:     scorer,
		ranker:     NewRanker(cat, logger),
		references: refs,
		logger:     logger,
		maxRefs:    maxRefs,
	}, nil
}

// PredictText parses free-form input text in any supported syntax and runs
// the pipeline.
func (p *Predictor) PredictText(ctx context.Context, input string) (*domain.PredictionOutput, error) {
	values, err := p.normalizer.Parse(input)
	if err != nil {
		return nil, err
	}
	return p.predict(ctx, values)
}

// PredictValues runs the pipeline over an already-keyed value map. Keys may
// be canonical ids or aliases.
func (p *Predictor) PredictValues(ctx context.Context, input map[string]float64) (*domain.PredictionOutput, error) {
	values, err := p.normalizer.FromMap(input)
	if err != nil {
		return nil, err
	}
	return p.predict(ctx, values)
}

func (p *Predictor) predict(ctx context.Context, values domain.RawValues) (*domain.PredictionOutput, error) {
	start := time.Now()

	scaling, err := p.scaler.Scale(values)
	if err != nil {
		return nil, err
	}

	scored, err := p.scorer.Score(values)
	if err != nil {
		return nil, err
	}

	key, err := p.ranker.Rank(scored.Winner, values)
	if err != nil {
		return nil, err
	}

	category, ok := p.catalog.CategoryByID(scored.Winner)
	if !ok {
		return nil, &domain.UnknownCatalogEntryError{ID: scored.Winner}
	}

	probabilities := make([]domain.CategoryProbability, len(scored.Probabilities))
	for i, cp := range scored.Probabilities {
		probabilities[i] = domain.CategoryProbability{
			Category:    cp.Category,
			Probability: roundTo(cp.Probability, 3),
		}
	}
	// Stable sort keeps catalog order among equal probabilities, matching
	// the winner tie-break.
	sort.SliceStable(probabilities, func(i, j int) bool {
		return probabilities[i].Probability > probabilities[j].Probability
	})

	result := domain.PredictionResult{
		Category:      category.ID,
		CategoryName:  category.Name,
		Confidence:    roundTo(scored.Confidence, 3),
		Severity:      category.Severity,
		Probabilities: probabilities,
		KeyBiomarkers: key,
		Explanation:   ComposeExplanation(category, p.catalog.NormalCategoryID(), key),
	}

	output := &domain.PredictionOutput{
		Prediction: result,
		Warnings:   scaling.Warnings,
		Summary:    scaling.Summary,
	}

	// Reference retrieval is supplementary: failures degrade to an empty
	// reference list rather than failing the prediction.
	if p.references != nil {
		refs, err := p.references.RetrieveReferences(ctx, category.ID, p.maxRefs)
		if err != nil {
			p.logger.WithFields(logrus.Fields{
				"category": category.ID,
				"error":    err.Error(),
			}).Warn("Reference retrieval failed, continuing without references")
		} else {
			output.References = refs
		}
	}

	p.logger.WithFields(logrus.Fields{
		"prediction":  result.Category,
		"confidence":  result.Confidence,
		"severity":    result.Severity,
		"warnings":    len(output.Warnings),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Completed triage prediction")

	return output, nil
}

// InputTemplate exposes the normalizer's template rendering for API clients.
func (p *Predictor) InputTemplate(format domain.InputFormat) (string, error) {
	return p.normalizer.Template(format)
}

// QueryReferences runs a free-text search against the reference provider.
func (p *Predictor) QueryReferences(ctx context.Context, text string) ([]domain.Reference, error) {
	if p.references == nil {
		return nil, nil
	}
	return p.references.Query(ctx, text)
}

// roundTo rounds v to the given number of decimal places, half away from
// zero.
func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
