package catalog

import "github.com/mediguard-triage-server/internal/domain"

// DefaultConfig returns the built-in catalog: the standard 24-biomarker
// metabolic/inflammatory panel and the nine triage categories. Deployments
// can replace it with a catalog JSON document via configuration.
func DefaultConfig() domain.CatalogConfig {
	return domain.CatalogConfig{
		Biomarkers:       defaultBiomarkers(),
		Categories:       defaultCategories(),
		Aliases:          defaultAliases(),
		NormalCategoryID: DefaultNormalCategoryID,
	}
}

func defaultBiomarkers() []domain.Biomarker {
	// List order is canonical: it binds positional input and the scaled
	// vector. Do not reorder.
	return []domain.Biomarker{
		{ID: "hemoglobin", Name: "Hemoglobin", Code: "HGB", Unit: "g/dL",
			NormalRange: domain.NormalRange{Min: 12.0, Max: 17.5}, CriticalLow: 5.0, CriticalHigh: 22.0},
		{ID: "wbc_count", Name: "White Blood Cell Count", Code: "WBC", Unit: "10^3/uL",
			NormalRange: domain.NormalRange{Min: 4.0, Max: 11.0}, CriticalLow: 1.0, CriticalHigh: 30.0},
		{ID: "platelet_count", Name: "Platelet Count", Code: "PLT", Unit: "10^3/uL",
			NormalRange: domain.NormalRange{Min: 150, Max: 400}, CriticalLow: 20, CriticalHigh: 1000},
		{ID: "glucose", Name: "Glucose", Code: "GLU", Unit: "mg/dL",
			NormalRange: domain.NormalRange{Min: 70, Max: 100}, CriticalLow: 40, CriticalHigh: 500},
		{ID: "creatinine", Name: "Creatinine", Code: "CREAT", Unit: "mg/dL",
			NormalRange: domain.NormalRange{Min: 0.6, Max: 1.2}, CriticalLow: 0.2, CriticalHigh: 10.0},
		{ID: "bun", Name: "Blood Urea Nitrogen", Code: "BUN", Unit: "mg/dL",
			NormalRange: domain.NormalRange{Min: 7, Max: 20}, CriticalLow: 2, CriticalHigh: 100},
		{ID: "sodium", Name: "Sodium", Code: "NA", Unit: "mEq/L",
			NormalRange: domain.NormalRange{Min: 135, Max: 145}, CriticalLow: 120, CriticalHigh: 160},
		{ID: "potassium", Name: "Potassium", Code: "K", Unit: "mEq/L",
			NormalRange: domain.NormalRange{Min: 3.5, Max: 5.0}, CriticalLow: 2.5, CriticalHigh: 7.0},
		{ID: "chloride", Name: "Chloride", Code: "CL", Unit: "mEq/L",
			NormalRange: domain.NormalRange{Min: 96, Max: 106}, CriticalLow: 80, CriticalHigh: 120},
		{ID: "calcium", Name: "Calcium", Code: "CA", Unit: "mg/dL",
			NormalRange: domain.NormalRange{Min: 8.5, Max: 10.5}, CriticalLow: 6.0, CriticalHigh: 13.0},
		{ID: "alt", Name: "Alanine Aminotransferase", Code: "ALT", Unit: "U/L",
			NormalRange: domain.NormalRange{Min: 7, Max: 56}, CriticalLow: 1, CriticalHigh: 1000},
		{ID: "ast", Name: "Aspartate Aminotransferase", Code: "AST", Unit: "U/L",
			NormalRange: domain.NormalRange{Min: 10, Max: 40}, CriticalLow: 1, CriticalHigh: 1000},
		{ID: "bilirubin_total", Name: "Total Bilirubin", Code: "TBIL", Unit: "mg/dL",
			NormalRange: domain.NormalRange{Min: 0.1, Max: 1.2}, CriticalLow: 0.05, CriticalHigh: 15.0},
		{ID: "albumin", Name: "Albumin", Code: "ALB", Unit: "g/dL",
			NormalRange: domain.NormalRange{Min: 3.5, Max: 5.0}, CriticalLow: 1.5, CriticalHigh: 6.0},
		{ID: "total_protein", Name: "Total Protein", Code: "TP", Unit: "g/dL",
			NormalRange: domain.NormalRange{Min: 6.0, Max: 8.3}, CriticalLow: 3.0, CriticalHigh: 12.0},
		{ID: "ldh", Name: "Lactate Dehydrogenase", Code: "LDH", Unit: "U/L",
			NormalRange: domain.NormalRange{Min: 140, Max: 280}, CriticalLow: 50, CriticalHigh: 2000},
		{ID: "troponin", Name: "Troponin I", Code: "TNI", Unit: "ng/mL",
			NormalRange: domain.NormalRange{Min: 0.0, Max: 0.04}, CriticalLow: 0.0, CriticalHigh: 2.0},
		{ID: "bnp", Name: "B-type Natriuretic Peptide", Code: "BNP", Unit: "pg/mL",
			NormalRange: domain.NormalRange{Min: 0, Max: 100}, CriticalLow: 0, CriticalHigh: 5000},
		{ID: "crp", Name: "C-Reactive Protein", Code: "CRP", Unit: "mg/L",
			NormalRange: domain.NormalRange{Min: 0, Max: 10}, CriticalLow: 0, CriticalHigh: 500},
		{ID: "esr", Name: "Erythrocyte Sedimentation Rate", Code: "ESR", Unit: "mm/hr",
			NormalRange: domain.NormalRange{Min: 0, Max: 20}, CriticalLow: 0, CriticalHigh: 150},
		{ID: "procalcitonin", Name: "Procalcitonin", Code: "PCT", Unit: "ng/mL",
			NormalRange: domain.NormalRange{Min: 0, Max: 0.25}, CriticalLow: 0, CriticalHigh: 100},
		{ID: "d_dimer", Name: "D-Dimer", Code: "DD", Unit: "ug/mL",
			NormalRange: domain.NormalRange{Min: 0, Max: 0.5}, CriticalLow: 0, CriticalHigh: 20},
		{ID: "inr", Name: "International Normalized Ratio", Code: "INR", Unit: "ratio",
			NormalRange: domain.NormalRange{Min: 0.8, Max: 1.2}, CriticalLow: 0.5, CriticalHigh: 10},
		{ID: "lactate", Name: "Lactate", Code: "LAC", Unit: "mmol/L",
			NormalRange: domain.NormalRange{Min: 0.5, Max: 2.0}, CriticalLow: 0.1, CriticalHigh: 20},
	}
}

func defaultCategories() []domain.DiseaseCategory {
	return []domain.DiseaseCategory{
		{
			ID: "sepsis", Name: "Sepsis", Severity: domain.SeverityCritical,
			Description: "Biomarker pattern consistent with sepsis: elevated procalcitonin and lactate with a systemic inflammatory response. Urgent clinical evaluation is recommended, including blood cultures and early antimicrobial therapy.",
			Relevance:   []string{"procalcitonin", "lactate", "wbc_count", "crp"},
		},
		{
			ID: "cardiac_event", Name: "Cardiac Event", Severity: domain.SeverityCritical,
			Description: "Biomarker pattern consistent with acute myocardial injury or decompensated heart failure. Immediate cardiology assessment with serial troponin measurement is recommended.",
			Relevance:   []string{"troponin", "bnp", "ldh"},
		},
		{
			ID: "renal_failure", Name: "Renal Failure", Severity: domain.SeverityHigh,
			Description: "Biomarker pattern consistent with acute kidney injury or renal failure. Nephrology review, fluid status assessment, and medication reconciliation are recommended.",
			Relevance:   []string{"creatinine", "bun", "potassium"},
		},
		{
			ID: "liver_disease", Name: "Liver Disease", Severity: domain.SeverityHigh,
			Description: "Biomarker pattern consistent with hepatocellular injury or impaired hepatic synthetic function. Hepatology evaluation and review of hepatotoxic exposures are recommended.",
			Relevance:   []string{"alt", "ast", "bilirubin_total", "albumin", "inr"},
		},
		{
			ID: "metabolic_disorder", Name: "Metabolic Disorder", Severity: domain.SeverityModerate,
			Description: "Biomarker pattern consistent with a glucose or electrolyte disturbance. Correction of the underlying derangement and endocrine review are recommended.",
			Relevance:   []string{"glucose", "sodium", "calcium", "potassium"},
		},
		{
			ID: "coagulopathy", Name: "Coagulopathy", Severity: domain.SeverityHigh,
			Description: "Biomarker pattern consistent with a coagulation disorder such as disseminated intravascular coagulation. Hematology consultation and bleeding-risk assessment are recommended.",
			Relevance:   []string{"inr", "d_dimer", "platelet_count"},
		},
		{
			ID: "anemia", Name: "Anemia", Severity: domain.SeverityModerate,
			Description: "Biomarker pattern consistent with anemia. Evaluation for blood loss, hemolysis, or marrow suppression is recommended; severe anemia may require transfusion.",
			Relevance:   []string{"hemoglobin"},
		},
		{
			ID: "infection", Name: "Infection", Severity: domain.SeverityModerate,
			Description: "Biomarker pattern consistent with an active infection or inflammatory process. Clinical correlation and source identification are recommended.",
			Relevance:   []string{"wbc_count", "crp", "esr", "procalcitonin"},
		},
		{
			ID: "normal", Name: "Normal", Severity: domain.SeverityLow,
			Description: "All measured biomarkers fall within established reference ranges for healthy adults.",
			Relevance:   []string{},
		},
	}
}

func defaultAliases() map[string]string {
	return map[string]string{
		"hgb": "hemoglobin", "hb": "hemoglobin", "hemo": "hemoglobin",
		"wbc": "wbc_count", "white_blood_cell": "wbc_count",
		"plt": "platelet_count", "platelet": "platelet_count",
		"glu": "glucose", "blood_sugar": "glucose", "bg": "glucose",
		"creat": "creatinine", "cr": "creatinine",
		"na": "sodium",
		"k":  "potassium",
		"cl": "chloride",
		"ca": "calcium",
		"tbil": "bilirubin_total", "bilirubin": "bilirubin_total",
		"alb": "albumin",
		"tp":  "total_protein", "protein": "total_protein",
		"tni": "troponin", "troponin_i": "troponin",
		"dd": "d_dimer", "ddimer": "d_dimer",
		"lac": "lactate",
		"pct": "procalcitonin",
	}
}
