// Package references retrieves supporting clinical literature for predicted
// disease categories. The default provider serves a curated in-process
// knowledge base; deployments can point at a remote retrieval service
// instead.
package references

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/mediguard-triage-server/internal/domain"
)

// queryCacheSize bounds the keyword-query result cache.
const queryCacheSize = 256

// queryResultLimit caps free-text query results.
const queryResultLimit = 5

// KnowledgeBase maps category ids to their curated references.
type KnowledgeBase map[string][]domain.Reference

// BuiltinProvider serves references from the curated in-process knowledge
// base. Lookup by category is a map read; free-text queries do keyword
// matching over the whole base and cache their results.
type BuiltinProvider struct {
	base       KnowledgeBase
	queryCache *lru.Cache[string, []domain.Reference]
	logger     *logrus.Logger
}

var _ domain.ReferenceProvider = (*BuiltinProvider)(nil)

// NewBuiltinProvider creates a provider over the default knowledge base.
func NewBuiltinProvider(logger *logrus.Logger) (*BuiltinProvider, error) {
	return NewBuiltinProviderWithBase(DefaultKnowledgeBase(), logger)
}

// NewBuiltinProviderWithBase creates a provider over a custom base.
func NewBuiltinProviderWithBase(base KnowledgeBase, logger *logrus.Logger) (*BuiltinProvider, error) {
	cache, err := lru.New[string, []domain.Reference](queryCacheSize)
	if err != nil {
		return nil, err
	}
	return &BuiltinProvider{base: base, queryCache: cache, logger: logger}, nil
}

// RetrieveReferences returns up to maxResults references for a category.
// Unknown categories yield an empty list, not an error.
func (p *BuiltinProvider) RetrieveReferences(ctx context.Context, categoryID string, maxResults int) ([]domain.Reference, error) {
	refs, ok := p.base[categoryID]
	if !ok {
		return []domain.Reference{}, nil
	}
	if maxResults > 0 && len(refs) > maxResults {
		refs = refs[:maxResults]
	}

	out := make([]domain.Reference, len(refs))
	copy(out, refs)
	return out, nil
}

// Query matches the query's keywords against reference titles, sections, and
// content across every category, deduplicating by title and section.
func (p *BuiltinProvider) Query(ctx context.Context, text string) ([]domain.Reference, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return []domain.Reference{}, nil
	}

	if cached, ok := p.queryCache.Get(normalized); ok {
		return cached, nil
	}

	words := strings.Fields(normalized)
	seen := make(map[string]bool)
	var results []domain.Reference

	for _, categoryID := range knowledgeBaseOrder {
		for _, ref := range p.base[categoryID] {
			haystack := strings.ToLower(ref.Title + " " + ref.Section + " " + ref.Content)
			matched := false
			for _, word := range words {
				if strings.Contains(haystack, word) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			key := ref.Title + ref.Section
			if seen[key] {
				continue
			}
			seen[key] = true
			results = append(results, ref)
		}
	}

	if len(results) > queryResultLimit {
		results = results[:queryResultLimit]
	}
	if results == nil {
		results = []domain.Reference{}
	}

	p.queryCache.Add(normalized, results)

	p.logger.WithFields(logrus.Fields{
		"query":   normalized,
		"matches": len(results),
	}).Debug("Queried reference knowledge base")

	return results, nil
}

// knowledgeBaseOrder keeps free-text query results deterministic.
var knowledgeBaseOrder = []string{
	"sepsis", "cardiac_event", "renal_failure", "liver_disease",
	"metabolic_disorder", "coagulopathy", "anemia", "infection", "normal",
}

// DefaultKnowledgeBase returns the curated clinical citation base covering
// every built-in triage category.
func DefaultKnowledgeBase() KnowledgeBase {
	return KnowledgeBase{
		"sepsis": {
			{
				Title:    "Surviving Sepsis Campaign Guidelines",
				Section:  "Biomarker-Guided Diagnosis",
				Content:  "Procalcitonin (PCT) levels >2.0 ng/mL are highly suggestive of bacterial sepsis. Lactate >4 mmol/L indicates severe sepsis with tissue hypoperfusion.",
				Citation: "Rhodes A, et al. Intensive Care Med. 2017;43(3):304-377",
			},
			{
				Title:    "Sepsis-3 Consensus Definitions",
				Section:  "Diagnostic Criteria",
				Content:  "Sepsis is defined as life-threatening organ dysfunction caused by dysregulated host response to infection. SOFA score >=2 with suspected infection.",
				Citation: "Singer M, et al. JAMA. 2016;315(8):801-810",
			},
		},
		"cardiac_event": {
			{
				Title:    "Fourth Universal Definition of Myocardial Infarction",
				Section:  "Troponin in Acute MI",
				Content:  "Cardiac troponin I >0.04 ng/mL indicates myocardial injury. Serial troponin rise/fall pattern diagnostic for acute MI.",
				Citation: "Thygesen K, et al. Circulation. 2018;138(20):e618-e651",
			},
			{
				Title:    "Heart Failure Biomarkers",
				Section:  "BNP and NT-proBNP",
				Content:  "BNP >400 pg/mL suggests acute decompensated heart failure. Elevated BNP correlates with left ventricular dysfunction severity.",
				Citation: "Januzzi JL, et al. J Am Coll Cardiol. 2019;73(9):1086-1099",
			},
		},
		"renal_failure": {
			{
				Title:    "KDIGO Acute Kidney Injury Guidelines",
				Section:  "AKI Diagnosis",
				Content:  "AKI is defined by serum creatinine increase >=0.3 mg/dL within 48h or >=1.5x baseline within 7 days. Creatinine >2.0 mg/dL with rising trend indicates significant renal impairment.",
				Citation: "KDIGO AKI Work Group. Kidney Int Suppl. 2012;2(1):1-138",
			},
		},
		"liver_disease": {
			{
				Title:    "Acute Liver Failure Diagnosis",
				Section:  "Laboratory Markers",
				Content:  "ALT/AST >200 U/L with hyperbilirubinemia (>2.0 mg/dL) and coagulopathy (INR >1.5) suggests acute hepatocellular injury.",
				Citation: "European Association for Study of Liver. J Hepatol. 2017;66(5):1047-1081",
			},
		},
		"metabolic_disorder": {
			{
				Title:    "Diabetic Emergencies",
				Section:  "Hyperglycemia and DKA",
				Content:  "Blood glucose >200 mg/dL with symptoms warrants immediate evaluation. Glucose <60 mg/dL is hypoglycemia requiring urgent treatment.",
				Citation: "American Diabetes Association. Diabetes Care. 2020;43(Suppl 1):S66-S76",
			},
			{
				Title:    "Electrolyte Disturbances",
				Section:  "Hyponatremia",
				Content:  "Serum sodium <135 mEq/L is hyponatremia. Severe hyponatremia (<125 mEq/L) requires urgent correction to prevent neurological complications.",
				Citation: "Spasovski G, et al. Eur J Endocrinol. 2014;170(3):G1-G47",
			},
		},
		"coagulopathy": {
			{
				Title:    "Coagulation Disorders in Critical Care",
				Section:  "DIC and Thrombosis",
				Content:  "INR >2.0 with platelet count <100x10^3/uL and elevated D-dimer (>2.0 ug/mL) suggests disseminated intravascular coagulation (DIC).",
				Citation: "Levi M, et al. N Engl J Med. 2019;381(23):2230-2241",
			},
		},
		"anemia": {
			{
				Title:    "Anemia Classification and Management",
				Section:  "Severe Anemia",
				Content:  "Hemoglobin <10.0 g/dL is moderate anemia. Hemoglobin <7.0 g/dL is severe anemia requiring transfusion consideration.",
				Citation: "WHO. Haemoglobin concentrations for the diagnosis of anaemia. 2011",
			},
		},
		"infection": {
			{
				Title:    "Inflammatory Markers in Infection",
				Section:  "CRP and ESR",
				Content:  "CRP >10 mg/L suggests active inflammation. CRP >100 mg/L with elevated WBC (>11x10^3/uL) indicates severe bacterial infection.",
				Citation: "Povoa P. Crit Care. 2002;6(5):396-399",
			},
		},
		"normal": {
			{
				Title:    "Reference Ranges in Clinical Chemistry",
				Section:  "Normal Biomarker Ranges",
				Content:  "All measured biomarkers fall within established reference ranges for healthy adults.",
				Citation: "Kratz A, et al. N Engl J Med. 2004;351(15):1548-1563",
			},
		},
	}
}
