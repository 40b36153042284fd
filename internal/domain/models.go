package domain

// NormalRange is the clinically expected interval for a biomarker.
// Breaching it produces a range warning but is not by itself critical.
type NormalRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Midpoint returns the center of the normal range, used as the anchor for
// deviation scoring. Catalog validation guarantees it is nonzero.
func (r NormalRange) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// Biomarker describes a single measurable lab value. Instances live inside
// the catalog and are immutable after load.
type Biomarker struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Code         string      `json:"code"`
	Unit         string      `json:"unit"`
	NormalRange  NormalRange `json:"normal_range"`
	CriticalLow  float64     `json:"critical_low"`
	CriticalHigh float64     `json:"critical_high"`
}

// CriticalSpan returns the width of the critical interval used as the
// min-max scaling anchor.
func (b Biomarker) CriticalSpan() float64 {
	return b.CriticalHigh - b.CriticalLow
}

// DiseaseCategory describes one predictable disease category, including the
// curated ordered relevance list consumed by the key-biomarker ranker.
type DiseaseCategory struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Relevance   []string `json:"relevance_list"`
}

// CatalogConfig is the on-disk catalog document. Biomarker list order is
// load-bearing: it defines the canonical order used by positional parsing
// and the scaled vector.
type CatalogConfig struct {
	Biomarkers       []Biomarker       `json:"biomarkers"`
	Categories       []DiseaseCategory `json:"disease_categories"`
	Aliases          map[string]string `json:"aliases,omitempty"`
	NormalCategoryID string            `json:"normal_category_id,omitempty"`
}

// RawValues maps every canonical biomarker id to its raw measured value.
// A RawValues produced by the normalizer is always complete.
type RawValues map[string]float64

// Warning records a single independent breach check result. Warnings are
// never merged: a value can carry both a range and a critical warning.
type Warning struct {
	BiomarkerID string            `json:"biomarker_id"`
	Severity    WarningSeverity   `json:"severity"`
	Direction   ComparisonOutcome `json:"direction"`
	Value       float64           `json:"value"`
	Unit        string            `json:"unit"`
}

// BiomarkerSummary carries the per-biomarker display record produced by the
// scaler alongside the scaled vector.
type BiomarkerSummary struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Code        string      `json:"code"`
	RawValue    float64     `json:"raw_value"`
	Unit        string      `json:"unit"`
	ScaledValue float64     `json:"scaled_value"`
	NormalRange NormalRange `json:"normal_range"`
}

// ScalingResult bundles the scaler outputs: the scaled vector in canonical
// order, the full warning list, and the per-biomarker summaries.
type ScalingResult struct {
	Scaled   []float64          `json:"scaled_values"`
	Warnings []Warning          `json:"warnings"`
	Summary  []BiomarkerSummary `json:"raw_summary"`
}

// CategoryProbability is one entry of the normalized probability
// distribution. The distribution is kept as an ordered slice because the
// output contract sorts it descending.
type CategoryProbability struct {
	Category    string  `json:"category"`
	Probability float64 `json:"probability"`
}

// KeyBiomarker is one ranked contributing measurement for the winning
// category.
type KeyBiomarker struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Code      string            `json:"code"`
	Value     float64           `json:"value"`
	Unit      string            `json:"unit"`
	Direction string            `json:"direction"`
	Status    ComparisonOutcome `json:"status"`
	Deviation float64           `json:"deviation"`
}

// PredictionResult is the per-request prediction produced by the pipeline.
type PredictionResult struct {
	Category      string                `json:"prediction"`
	CategoryName  string                `json:"prediction_name"`
	Confidence    float64               `json:"confidence"`
	Severity      Severity              `json:"severity"`
	Probabilities []CategoryProbability `json:"probabilities"`
	KeyBiomarkers []KeyBiomarker        `json:"key_biomarkers"`
	Explanation   string                `json:"explanation"`
}

// Reference is a citation record supplied by the reference-lookup
// collaborator. It is purely additive and never feeds back into scoring.
type Reference struct {
	Title    string `json:"title"`
	Section  string `json:"section"`
	Content  string `json:"content"`
	Citation string `json:"citation"`
}

// PredictionOutput is the full response of a triage request: the prediction
// plus the scaler warnings and summary as siblings, and any references the
// collaborator returned.
type PredictionOutput struct {
	Prediction PredictionResult   `json:"prediction"`
	Warnings   []Warning          `json:"warnings"`
	Summary    []BiomarkerSummary `json:"raw_summary"`
	References []Reference        `json:"references,omitempty"`
}
