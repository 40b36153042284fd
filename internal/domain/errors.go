package domain

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownBiomarkerError reports a key that resolves to neither a canonical
// biomarker id nor an alias. Parsing stops at the first unknown key.
type UnknownBiomarkerError struct {
	Key string
}

func (e *UnknownBiomarkerError) Error() string {
	return fmt.Sprintf("unknown biomarker: %s", e.Key)
}

// InvalidNumericValueError reports a token that could not be parsed as a
// number. Position is 1-based and only set for positional input.
type InvalidNumericValueError struct {
	Key      string
	Position int
	Token    string
}

func (e *InvalidNumericValueError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("invalid numeric value at position %d (%s): %s", e.Position, e.Key, e.Token)
	}
	return fmt.Sprintf("invalid numeric value for %s: %s", e.Key, e.Token)
}

// MissingBiomarkersError reports incomplete input. For positional input with
// the wrong token count, Expected and Got carry the counts; for key/value
// input, Missing enumerates every absent canonical id.
type MissingBiomarkersError struct {
	Missing  []string
	Expected int
	Got      int
}

func (e *MissingBiomarkersError) Error() string {
	if e.Expected > 0 && e.Got != e.Expected {
		return fmt.Sprintf("input requires exactly %d values, got %d", e.Expected, e.Got)
	}
	return fmt.Sprintf("missing required biomarkers: %s", strings.Join(e.Missing, ", "))
}

// NewMissingBiomarkersError builds a MissingBiomarkersError with a
// deterministic id order.
func NewMissingBiomarkersError(missing []string) *MissingBiomarkersError {
	sorted := make([]string, len(missing))
	copy(sorted, missing)
	sort.Strings(sorted)
	return &MissingBiomarkersError{Missing: sorted}
}

// UnknownCatalogEntryError reports a request or rule referencing an id that
// is absent from the loaded catalog.
type UnknownCatalogEntryError struct {
	ID string
}

func (e *UnknownCatalogEntryError) Error() string {
	return fmt.Sprintf("unknown catalog entry: %s", e.ID)
}

// CatalogInvariant names a load-time catalog invariant.
type CatalogInvariant string

const (
	// ZeroSpanConfig fires when critical_high is not strictly greater than
	// critical_low. A zero span would make min-max scaling divide by zero
	// and swapped bounds would invert the scaling direction.
	ZeroSpanConfig CatalogInvariant = "zero_critical_span"
	// ZeroMidpointConfig fires when the normal-range midpoint is zero, which
	// would make deviation scoring divide by zero.
	ZeroMidpointConfig CatalogInvariant = "zero_normal_midpoint"
)

// CatalogConfigError reports a fatal catalog-load invariant violation. The
// process must refuse to serve requests when one is returned.
type CatalogConfigError struct {
	BiomarkerID string
	Invariant   CatalogInvariant
}

func (e *CatalogConfigError) Error() string {
	switch e.Invariant {
	case ZeroSpanConfig:
		return fmt.Sprintf("biomarker %s: critical range has no positive span", e.BiomarkerID)
	case ZeroMidpointConfig:
		return fmt.Sprintf("biomarker %s: normal range has zero midpoint", e.BiomarkerID)
	default:
		return fmt.Sprintf("biomarker %s: invalid catalog entry (%s)", e.BiomarkerID, e.Invariant)
	}
}

// InvalidInputError reports input text that matches none of the supported
// syntaxes, or a malformed structured document.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("could not parse input: %s", e.Reason)
}
