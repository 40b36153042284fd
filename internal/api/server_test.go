package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediguard-triage-server/internal/catalog"
	"github.com/mediguard-triage-server/internal/domain"
	"github.com/mediguard-triage-server/internal/feedback"
	"github.com/mediguard-triage-server/internal/references"
	"github.com/mediguard-triage-server/internal/service"
)

// stubConfigManager satisfies domain.ConfigManager with fixed test values.
type stubConfigManager struct {
	config *domain.Config
}

func (s *stubConfigManager) GetConfig() *domain.Config                 { return s.config }
func (s *stubConfigManager) GetServerConfig() *domain.ServerConfig     { return &s.config.Server }
func (s *stubConfigManager) GetDatabaseConfig() *domain.DatabaseConfig { return &s.config.Database }
func (s *stubConfigManager) Validate() error                           { return nil }
func (s *stubConfigManager) GetDatabaseConnectionString() string       { return "" }

func testConfig() *stubConfigManager {
	return &stubConfigManager{config: &domain.Config{
		Server:     domain.ServerConfig{Host: "127.0.0.1", Port: 0},
		References: domain.ReferencesConfig{Mode: "builtin", MaxResults: 3},
		RateLimit:  domain.RateLimitConfig{Enabled: false},
		Logging:    domain.LoggingConfig{Level: "error", Format: "json"},
	}}
}

func newTestServer(t *testing.T, store feedback.Store) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cat, err := catalog.New(catalog.DefaultConfig())
	require.NoError(t, err)

	provider, err := references.NewBuiltinProvider(logger)
	require.NoError(t, err)

	predictor, err := service.NewPredictor(cat, provider, 3, logger)
	require.NoError(t, err)

	return NewServer(testConfig(), cat, predictor, store, logger)
}

func newTestStore(t *testing.T) feedback.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "api-feedback-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := feedback.NewSQLiteStore(filepath.Join(tmpDir, "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// completePanel returns every biomarker at its midpoint, with overrides
// applied.
func completePanel(t *testing.T, overrides map[string]float64) map[string]float64 {
	t.Helper()

	cat, err := catalog.New(catalog.DefaultConfig())
	require.NoError(t, err)

	values := make(map[string]float64, cat.Size())
	for _, b := range cat.Biomarkers() {
		values[b.ID] = b.NormalRange.Midpoint()
	}
	for id, v := range overrides {
		values[id] = v
	}
	return values
}

func sepsisOverrides() map[string]float64 {
	return map[string]float64{
		"procalcitonin": 8.5,
		"lactate":       5.2,
		"wbc_count":     18.5,
		"crp":           180,
	}
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, serverVersion, body["version"])
}

func TestHandlePredict_Biomarkers(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, http.MethodPost, "/api/v1/predict", gin.H{
		"biomarkers": completePanel(t, sepsisOverrides()),
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])

	prediction := body["prediction"].(map[string]interface{})
	assert.Equal(t, "sepsis", prediction["prediction"])
	assert.Equal(t, "Sepsis", prediction["prediction_name"])
	assert.Equal(t, "critical", prediction["severity"])
	assert.InDelta(t, 0.556, prediction["confidence"].(float64), 1e-9)
	assert.NotEmpty(t, prediction["key_biomarkers"])
	assert.NotEmpty(t, prediction["explanation"])

	warnings := body["warnings"].([]interface{})
	require.Len(t, warnings, 4)
	assert.Contains(t, warnings[0], "ABOVE normal range")

	refs := body["references"].([]interface{})
	assert.NotEmpty(t, refs)

	summary := body["raw_summary"].([]interface{})
	assert.Len(t, summary, 24)
}

func TestHandlePredict_TextInput(t *testing.T) {
	server := newTestServer(t, nil)

	panel := completePanel(t, nil)
	cat, err := catalog.New(catalog.DefaultConfig())
	require.NoError(t, err)

	input := ""
	for i, id := range cat.Order() {
		if i > 0 {
			input += ", "
		}
		input += fmt.Sprintf("%s=%g", id, panel[id])
	}

	w := doJSON(t, server, http.MethodPost, "/api/v1/predict", gin.H{"input": input})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	prediction := body["prediction"].(map[string]interface{})
	assert.Equal(t, "normal", prediction["prediction"])
	assert.Empty(t, body["warnings"])
}

func TestHandlePredict_BadRequests(t *testing.T) {
	server := newTestServer(t, nil)

	tests := []struct {
		name    string
		payload interface{}
		errPart string
	}{
		{
			name:    "Neither input nor biomarkers",
			payload: gin.H{},
			errPart: "requires either",
		},
		{
			name: "Both input and biomarkers",
			payload: gin.H{
				"input":      "hemoglobin=14",
				"biomarkers": map[string]float64{"hemoglobin": 14},
			},
			errPart: "must not combine",
		},
		{
			name:    "Unknown biomarker key",
			payload: gin.H{"input": "mystery_marker=1.0"},
			errPart: "mystery_marker",
		},
		{
			name:    "Incomplete panel",
			payload: gin.H{"biomarkers": map[string]float64{"hemoglobin": 14}},
			errPart: "missing required biomarkers",
		},
		{
			name:    "Wrong positional count",
			payload: gin.H{"input": "1,2,3"},
			errPart: "requires exactly 24 values",
		},
		{
			name:    "Unparseable input",
			payload: gin.H{"input": "just words"},
			errPart: "expected a JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, server, http.MethodPost, "/api/v1/predict", tt.payload)

			require.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody(t, w)
			assert.Contains(t, body["error"], tt.errPart)
		})
	}
}

func TestHandleListBiomarkers(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, http.MethodGet, "/api/v1/biomarkers", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(24), body["count"])

	biomarkers := body["biomarkers"].([]interface{})
	require.Len(t, biomarkers, 24)
	first := biomarkers[0].(map[string]interface{})
	assert.Equal(t, "hemoglobin", first["id"])
}

func TestHandleListCategories(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, http.MethodGet, "/api/v1/categories", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	categories := body["categories"].([]interface{})
	require.Len(t, categories, 9)
}

func TestHandleTemplate(t *testing.T) {
	server := newTestServer(t, nil)

	t.Run("Key value format", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/v1/template/key_value", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "key_value", body["format"])
		assert.Contains(t, body["template"], "hemoglobin=0.0")
	})

	t.Run("Unknown format", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/v1/template/yaml", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleQueryReferences(t *testing.T) {
	server := newTestServer(t, nil)

	t.Run("Matches", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/v1/references?q=sepsis", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "sepsis", body["query"])
		assert.NotZero(t, body["count"])
	})

	t.Run("No match", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/v1/references?q=xylophone", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(0), body["count"])
		assert.NotNil(t, body["references"])
	})

	t.Run("Missing query", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/v1/references", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleFeedback(t *testing.T) {
	store := newTestStore(t)
	server := newTestServer(t, store)

	payload := gin.H{
		"case_id":            "case-001",
		"input":              "procalcitonin=8.5",
		"predicted_category": "sepsis",
		"confidence":         0.556,
		"severity":           "critical",
		"clinician_category": "sepsis",
		"clinician_agreed":   true,
	}

	t.Run("Save", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/v1/feedback", payload)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "saved", body["status"])
		assert.NotZero(t, body["id"])
	})

	t.Run("Get", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/v1/feedback/case-001", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "sepsis", body["predicted_category"])
	})

	t.Run("Get missing case", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/v1/feedback/case-404", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("List", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/v1/feedback?limit=10", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("Unknown category rejected", func(t *testing.T) {
		bad := gin.H{}
		for k, v := range payload {
			bad[k] = v
		}
		bad["predicted_category"] = "zombie_plague"

		w := doJSON(t, server, http.MethodPost, "/api/v1/feedback", bad)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing required field rejected", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/v1/feedback", gin.H{"case_id": "x"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleFeedback_NoStore(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, http.MethodGet, "/api/v1/feedback", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, server, http.MethodPost, "/api/v1/feedback", gin.H{"case_id": "x"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflightRequest(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, http.MethodOptions, "/api/v1/predict", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
