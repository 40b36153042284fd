// Package catalog holds the immutable, load-once description of every
// measurable biomarker and every disease category. A Catalog is constructed
// exactly once at process start, validated against its load-time invariants,
// and passed by reference to every component; nothing mutates it afterwards.
package catalog

import (
	"strings"

	"github.com/mediguard-triage-server/internal/domain"
)

// DefaultNormalCategoryID is the reserved id of the "no abnormality"
// category when the catalog document does not override it.
const DefaultNormalCategoryID = "normal"

// Catalog is the validated, read-only biomarker and category registry.
// Biomarker position defines the canonical order used by positional parsing
// and the scaled-value vector.
type Catalog struct {
	biomarkers []domain.Biomarker
	bioIndex   map[string]int
	categories []domain.DiseaseCategory
	catIndex   map[string]int
	aliases    map[string]string
	normalID   string
}

// New builds and validates a catalog from a configuration document.
// Invariant violations are fatal: the caller must refuse to serve requests
// when an error is returned.
func New(cfg domain.CatalogConfig) (*Catalog, error) {
	c := &Catalog{
		biomarkers: make([]domain.Biomarker, len(cfg.Biomarkers)),
		bioIndex:   make(map[string]int, len(cfg.Biomarkers)),
		categories: make([]domain.DiseaseCategory, len(cfg.Categories)),
		catIndex:   make(map[string]int, len(cfg.Categories)),
		aliases:    make(map[string]string, len(cfg.Aliases)),
		normalID:   cfg.NormalCategoryID,
	}
	if c.normalID == "" {
		c.normalID = DefaultNormalCategoryID
	}

	copy(c.biomarkers, cfg.Biomarkers)
	for i, b := range c.biomarkers {
		if b.CriticalSpan() <= 0 {
			return nil, &domain.CatalogConfigError{BiomarkerID: b.ID, Invariant: domain.ZeroSpanConfig}
		}
		if b.NormalRange.Min+b.NormalRange.Max == 0 {
			return nil, &domain.CatalogConfigError{BiomarkerID: b.ID, Invariant: domain.ZeroMidpointConfig}
		}
		if _, dup := c.bioIndex[b.ID]; dup {
			return nil, &domain.InvalidInputError{Reason: "duplicate biomarker id " + b.ID}
		}
		c.bioIndex[b.ID] = i
	}

	copy(c.categories, cfg.Categories)
	for i, cat := range c.categories {
		if !cat.Severity.IsValid() {
			return nil, &domain.InvalidInputError{Reason: "invalid severity for category " + cat.ID}
		}
		if _, dup := c.catIndex[cat.ID]; dup {
			return nil, &domain.InvalidInputError{Reason: "duplicate category id " + cat.ID}
		}
		c.catIndex[cat.ID] = i
		for _, id := range cat.Relevance {
			if _, ok := c.bioIndex[id]; !ok {
				return nil, &domain.UnknownCatalogEntryError{ID: id}
			}
		}
	}
	if _, ok := c.catIndex[c.normalID]; !ok {
		return nil, &domain.UnknownCatalogEntryError{ID: c.normalID}
	}

	for alias, id := range cfg.Aliases {
		if _, ok := c.bioIndex[id]; !ok {
			return nil, &domain.UnknownCatalogEntryError{ID: id}
		}
		c.aliases[NormalizeKey(alias)] = id
	}

	return c, nil
}

// Size returns the number of biomarkers, which is also the length of the
// scaled-value vector and the required positional token count.
func (c *Catalog) Size() int {
	return len(c.biomarkers)
}

// Biomarkers returns all biomarkers in canonical order.
func (c *Catalog) Biomarkers() []domain.Biomarker {
	out := make([]domain.Biomarker, len(c.biomarkers))
	copy(out, c.biomarkers)
	return out
}

// Order returns the canonical biomarker id sequence.
func (c *Catalog) Order() []string {
	out := make([]string, len(c.biomarkers))
	for i, b := range c.biomarkers {
		out[i] = b.ID
	}
	return out
}

// BiomarkerByID looks up a biomarker by canonical id.
func (c *Catalog) BiomarkerByID(id string) (domain.Biomarker, bool) {
	i, ok := c.bioIndex[id]
	if !ok {
		return domain.Biomarker{}, false
	}
	return c.biomarkers[i], true
}

// Categories returns all disease categories in catalog order. Catalog order
// is the documented tie-break order for equal probabilities.
func (c *Catalog) Categories() []domain.DiseaseCategory {
	out := make([]domain.DiseaseCategory, len(c.categories))
	copy(out, c.categories)
	return out
}

// CategoryByID looks up a disease category by id.
func (c *Catalog) CategoryByID(id string) (domain.DiseaseCategory, bool) {
	i, ok := c.catIndex[id]
	if !ok {
		return domain.DiseaseCategory{}, false
	}
	return c.categories[i], true
}

// NormalCategoryID returns the id of the designated "normal" category.
func (c *Catalog) NormalCategoryID() string {
	return c.normalID
}

// Resolve maps a user-supplied key to a canonical biomarker id, trying the
// canonical id set first and the alias table second.
func (c *Catalog) Resolve(key string) (string, bool) {
	norm := NormalizeKey(key)
	if _, ok := c.bioIndex[norm]; ok {
		return norm, true
	}
	if id, ok := c.aliases[norm]; ok {
		return id, true
	}
	return "", false
}

// NormalizeKey lower-cases a key and replaces whitespace and hyphens with
// underscores, matching the canonical id spelling.
func NormalizeKey(key string) string {
	norm := strings.ToLower(strings.TrimSpace(key))
	norm = strings.ReplaceAll(norm, " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")
	return norm
}
