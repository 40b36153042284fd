package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediguard-triage-server/internal/domain"
)

func TestNormalizer_Parse_SyntaxDetection(t *testing.T) {
	n := NewNormalizer(testCatalog(t), testLogger())

	complete := midpointValues(t)

	jsonInput := func() string {
		var b strings.Builder
		b.WriteString("{")
		first := true
		for id, v := range complete {
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%q: %g", id, v)
		}
		b.WriteString("}")
		return b.String()
	}()

	pairInput := func() string {
		cat := testCatalog(t)
		parts := make([]string, 0, len(complete))
		for _, id := range cat.Order() {
			parts = append(parts, fmt.Sprintf("%s=%g", id, complete[id]))
		}
		return strings.Join(parts, ", ")
	}()

	csvInput := func() string {
		cat := testCatalog(t)
		parts := make([]string, 0, len(complete))
		for _, id := range cat.Order() {
			parts = append(parts, fmt.Sprintf("%g", complete[id]))
		}
		return strings.Join(parts, ",")
	}()

	tests := []struct {
		name  string
		input string
	}{
		{"JSON object", jsonInput},
		{"Key=value pairs", pairInput},
		{"Colon pairs", strings.ReplaceAll(pairInput, "=", ": ")},
		{"Positional CSV", csvInput},
		{"Leading whitespace JSON", "   " + jsonInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := n.Parse(tt.input)
			require.NoError(t, err)
			assert.Len(t, values, 24)
			for id, want := range complete {
				assert.Equal(t, want, values[id], id)
			}
		})
	}
}

func TestNormalizer_Parse_Aliases(t *testing.T) {
	n := NewNormalizer(testCatalog(t), testLogger())

	complete := midpointValues(t)
	parts := make([]string, 0, len(complete))
	for _, id := range testCatalog(t).Order() {
		parts = append(parts, fmt.Sprintf("%s=%g", id, complete[id]))
	}
	// Swap in aliases with mixed case and separators.
	input := strings.Join(parts, ", ")
	input = strings.Replace(input, "hemoglobin=", "HGB=", 1)
	input = strings.Replace(input, "wbc_count=", "wbc=", 1)
	input = strings.Replace(input, "procalcitonin=", "PCT=", 1)
	input = strings.Replace(input, "d_dimer=", "D-Dimer=", 1)

	values, err := n.Parse(input)
	require.NoError(t, err)
	assert.Equal(t, complete["hemoglobin"], values["hemoglobin"])
	assert.Equal(t, complete["wbc_count"], values["wbc_count"])
	assert.Equal(t, complete["procalcitonin"], values["procalcitonin"])
	assert.Equal(t, complete["d_dimer"], values["d_dimer"])
}

func TestNormalizer_Parse_UnknownKey(t *testing.T) {
	n := NewNormalizer(testCatalog(t), testLogger())

	_, err := n.Parse("mystery_marker=1.0")
	require.Error(t, err)

	var unknownErr *domain.UnknownBiomarkerError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "mystery_marker", unknownErr.Key)
}

func TestNormalizer_Parse_MissingBiomarkers(t *testing.T) {
	n := NewNormalizer(testCatalog(t), testLogger())

	// Complete panel minus hemoglobin and lactate.
	complete := midpointValues(t)
	parts := make([]string, 0, len(complete))
	for _, id := range testCatalog(t).Order() {
		if id == "hemoglobin" || id == "lactate" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%g", id, complete[id]))
	}

	_, err := n.Parse(strings.Join(parts, ", "))
	require.Error(t, err)

	var missingErr *domain.MissingBiomarkersError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"hemoglobin", "lactate"}, missingErr.Missing)
}

func TestNormalizer_Parse_PositionalErrors(t *testing.T) {
	n := NewNormalizer(testCatalog(t), testLogger())

	t.Run("Wrong value count", func(t *testing.T) {
		_, err := n.Parse("1,2,3")
		require.Error(t, err)

		var missingErr *domain.MissingBiomarkersError
		require.True(t, errors.As(err, &missingErr))
		assert.Equal(t, 24, missingErr.Expected)
		assert.Equal(t, 3, missingErr.Got)
	})

	t.Run("Non-numeric token reports position", func(t *testing.T) {
		tokens := make([]string, 24)
		for i := range tokens {
			tokens[i] = "1.0"
		}
		tokens[4] = "abc"

		_, err := n.Parse(strings.Join(tokens, ","))
		require.Error(t, err)

		var numErr *domain.InvalidNumericValueError
		require.True(t, errors.As(err, &numErr))
		assert.Equal(t, 5, numErr.Position)
		assert.Equal(t, "creatinine", numErr.Key)
		assert.Equal(t, "abc", numErr.Token)
	})
}

func TestNormalizer_Parse_InvalidNumericPair(t *testing.T) {
	n := NewNormalizer(testCatalog(t), testLogger())

	_, err := n.Parse("hemoglobin=not_a_number")
	require.Error(t, err)

	var numErr *domain.InvalidNumericValueError
	require.True(t, errors.As(err, &numErr))
	assert.Equal(t, "hemoglobin", numErr.Key)
	assert.Equal(t, "not_a_number", numErr.Token)
	assert.Zero(t, numErr.Position)
}

func TestNormalizer_Parse_Unrecognized(t *testing.T) {
	n := NewNormalizer(testCatalog(t), testLogger())

	_, err := n.Parse("just some words")
	require.Error(t, err)

	var invalidErr *domain.InvalidInputError
	assert.True(t, errors.As(err, &invalidErr))
}

func TestNormalizer_FromMap(t *testing.T) {
	n := NewNormalizer(testCatalog(t), testLogger())

	t.Run("Complete map with alias keys", func(t *testing.T) {
		input := make(map[string]float64, 24)
		for id, v := range midpointValues(t) {
			input[id] = v
		}
		delete(input, "hemoglobin")
		input["hgb"] = 14.75

		values, err := n.FromMap(input)
		require.NoError(t, err)
		assert.Equal(t, 14.75, values["hemoglobin"])
	})

	t.Run("Incomplete map", func(t *testing.T) {
		_, err := n.FromMap(map[string]float64{"hemoglobin": 14.0})
		var missingErr *domain.MissingBiomarkersError
		require.True(t, errors.As(err, &missingErr))
		assert.Len(t, missingErr.Missing, 23)
	})
}

func TestNormalizer_Template_RoundTrip(t *testing.T) {
	n := NewNormalizer(testCatalog(t), testLogger())

	formats := []domain.InputFormat{domain.FormatJSON, domain.FormatKeyValue, domain.FormatPositional}
	for _, format := range formats {
		t.Run(string(format), func(t *testing.T) {
			tmpl, err := n.Template(format)
			require.NoError(t, err)

			values, err := n.Parse(tmpl)
			require.NoError(t, err)
			assert.Len(t, values, 24)
			for id, v := range values {
				assert.Zero(t, v, id)
			}
		})
	}
}

func TestNormalizer_Template_UnknownFormat(t *testing.T) {
	n := NewNormalizer(testCatalog(t), testLogger())

	_, err := n.Template(domain.InputFormat("yaml"))
	require.Error(t, err)
}
