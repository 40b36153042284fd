// Package service implements the triage pipeline: input normalization,
// range scaling, threshold scoring, key-biomarker ranking, and explanation
// composition. Every stage is pure and synchronous; the only shared state is
// the read-only catalog.
package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mediguard-triage-server/internal/catalog"
	"github.com/mediguard-triage-server/internal/domain"
)

// Normalizer parses one of the supported textual syntaxes into a complete
// canonical id-to-value mapping. Parsing is all-or-nothing: no partial
// result is ever returned.
type Normalizer struct {
	catalog *catalog.Catalog
	logger  *logrus.Logger
}

// NewNormalizer creates a new input normalizer bound to a catalog.
func NewNormalizer(cat *catalog.Catalog, logger *logrus.Logger) *Normalizer {
	return &Normalizer{catalog: cat, logger: logger}
}

// Parse auto-detects the input syntax by structural markers and parses it.
// Supported syntaxes: a JSON object, delimiter-separated key=value or
// key:value pairs, and a fixed-order comma-separated numeric list.
func (n *Normalizer) Parse(input string) (domain.RawValues, error) {
	text := strings.TrimSpace(input)

	switch {
	case strings.HasPrefix(text, "{"):
		return n.parseJSON(text)
	case strings.ContainsAny(text, "=:"):
		return n.parsePairs(text)
	case strings.Contains(text, ","):
		return n.parsePositional(text)
	default:
		return nil, &domain.InvalidInputError{
			Reason: "expected a JSON object, key=value pairs, or a comma-separated value list",
		}
	}
}

// FromMap validates an already extracted key-to-value mapping, resolving
// aliases and enforcing completeness. Used when a collaborator supplies a
// map instead of text.
func (n *Normalizer) FromMap(values map[string]float64) (domain.RawValues, error) {
	result := make(domain.RawValues, len(values))
	for key, value := range values {
		id, ok := n.catalog.Resolve(key)
		if !ok {
			return nil, &domain.UnknownBiomarkerError{Key: key}
		}
		result[id] = value
	}
	if err := n.checkComplete(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (n *Normalizer) parseJSON(text string) (domain.RawValues, error) {
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()

	var raw map[string]interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, &domain.InvalidInputError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	result := make(domain.RawValues, len(raw))
	for key, value := range raw {
		id, ok := n.catalog.Resolve(key)
		if !ok {
			return nil, &domain.UnknownBiomarkerError{Key: key}
		}

		parsed, err := numericValue(value)
		if err != nil {
			return nil, &domain.InvalidNumericValueError{Key: key, Token: fmt.Sprintf("%v", value)}
		}
		result[id] = parsed
	}

	if err := n.checkComplete(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (n *Normalizer) parsePairs(text string) (domain.RawValues, error) {
	segments := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	result := make(domain.RawValues)
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		var parts []string
		switch {
		case strings.Contains(segment, "="):
			parts = strings.SplitN(segment, "=", 2)
		case strings.Contains(segment, ":"):
			parts = strings.SplitN(segment, ":", 2)
		default:
			continue
		}

		key := strings.TrimSpace(parts[0])
		token := strings.TrimSpace(parts[1])

		id, ok := n.catalog.Resolve(key)
		if !ok {
			return nil, &domain.UnknownBiomarkerError{Key: key}
		}

		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, &domain.InvalidNumericValueError{Key: key, Token: token}
		}
		result[id] = value
	}

	if err := n.checkComplete(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (n *Normalizer) parsePositional(text string) (domain.RawValues, error) {
	order := n.catalog.Order()
	tokens := strings.Split(text, ",")
	if len(tokens) != len(order) {
		return nil, &domain.MissingBiomarkersError{Expected: len(order), Got: len(tokens)}
	}

	result := make(domain.RawValues, len(order))
	for i, id := range order {
		token := strings.TrimSpace(tokens[i])
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, &domain.InvalidNumericValueError{Key: id, Position: i + 1, Token: token}
		}
		result[id] = value
	}
	return result, nil
}

// checkComplete enforces the completeness invariant: the result must contain
// every canonical id before it may be scaled or scored.
func (n *Normalizer) checkComplete(values domain.RawValues) error {
	var missing []string
	for _, id := range n.catalog.Order() {
		if _, ok := values[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return domain.NewMissingBiomarkersError(missing)
	}
	return nil
}

// templatePlaceholder is the zero value emitted by template generation.
const templatePlaceholder = "0.0"

// Template emits a fillable input skeleton in the requested syntax,
// enumerating every canonical id in canonical order.
func (n *Normalizer) Template(format domain.InputFormat) (string, error) {
	order := n.catalog.Order()

	switch format {
	case domain.FormatJSON:
		var b strings.Builder
		b.WriteString("{\n")
		for i, id := range order {
			fmt.Fprintf(&b, "  %q: %s", id, templatePlaceholder)
			if i < len(order)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("}")
		return b.String(), nil

	case domain.FormatKeyValue:
		pairs := make([]string, len(order))
		for i, id := range order {
			pairs[i] = id + "=" + templatePlaceholder
		}
		return strings.Join(pairs, ", "), nil

	case domain.FormatPositional:
		tokens := make([]string, len(order))
		for i := range order {
			tokens[i] = templatePlaceholder
		}
		return strings.Join(tokens, ", "), nil

	default:
		return "", &domain.InvalidInputError{Reason: fmt.Sprintf("unknown template format: %s", format)}
	}
}

// numericValue converts a decoded JSON value to a float64. Numeric strings
// are accepted, matching the tolerance of the pair syntax.
func numericValue(value interface{}) (float64, error) {
	switch v := value.(type) {
	case json.Number:
		return v.Float64()
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", value)
	}
}
