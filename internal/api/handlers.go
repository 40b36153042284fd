package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mediguard-triage-server/internal/domain"
	"github.com/mediguard-triage-server/internal/feedback"
)

// predictRequest accepts either free-form input text or an already keyed
// biomarker map. Exactly one of the two must be present.
type predictRequest struct {
	Input      string             `json:"input"`
	Biomarkers map[string]float64 `json:"biomarkers"`
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   serverVersion,
	})
}

// handlePredict runs the triage pipeline over the submitted biomarker panel.
func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}

	if req.Input == "" && len(req.Biomarkers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request requires either 'input' text or a 'biomarkers' object"})
		return
	}
	if req.Input != "" && len(req.Biomarkers) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request must not combine 'input' text with a 'biomarkers' object"})
		return
	}

	var (
		output *domain.PredictionOutput
		err    error
	)
	if req.Input != "" {
		output, err = s.predictor.PredictText(c.Request.Context(), req.Input)
	} else {
		output, err = s.predictor.PredictValues(c.Request.Context(), req.Biomarkers)
	}
	if err != nil {
		s.respondPredictionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"prediction":  output.Prediction,
		"warnings":    s.renderWarnings(output.Warnings),
		"references":  output.References,
		"raw_summary": output.Summary,
	})
}

// respondPredictionError maps pipeline errors onto HTTP statuses. Input
// errors are the caller's fault; catalog errors are ours.
func (s *Server) respondPredictionError(c *gin.Context, err error) {
	var (
		unknownBio *domain.UnknownBiomarkerError
		badNumber  *domain.InvalidNumericValueError
		missing    *domain.MissingBiomarkersError
		badInput   *domain.InvalidInputError
	)

	switch {
	case errors.As(err, &unknownBio), errors.As(err, &badNumber),
		errors.As(err, &missing), errors.As(err, &badInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.WithError(err).Error("Prediction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// handleListBiomarkers returns the catalog's biomarker definitions in
// canonical order.
func (s *Server) handleListBiomarkers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"biomarkers": s.catalog.Biomarkers(),
		"count":      s.catalog.Size(),
	})
}

// handleListCategories returns the catalog's disease categories.
func (s *Server) handleListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": s.catalog.Categories(),
	})
}

// handleTemplate returns a fillable input skeleton in the requested syntax.
func (s *Server) handleTemplate(c *gin.Context) {
	format := domain.InputFormat(c.Param("format"))
	if !format.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown template format, expected one of: json, key_value, csv",
		})
		return
	}

	template, err := s.predictor.InputTemplate(format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"format":   string(format),
		"template": template,
	})
}

// handleQueryReferences runs a free-text search over the clinical reference
// knowledge base.
func (s *Server) handleQueryReferences(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter 'q'"})
		return
	}

	refs, err := s.predictor.QueryReferences(c.Request.Context(), query)
	if err != nil {
		s.logger.WithError(err).Error("Reference query failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "reference lookup unavailable"})
		return
	}
	if refs == nil {
		refs = []domain.Reference{}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":      query,
		"references": refs,
		"count":      len(refs),
	})
}

// feedbackRequest is the clinician feedback submission body.
type feedbackRequest struct {
	CaseID            string  `json:"case_id" binding:"required"`
	Input             string  `json:"input"`
	PredictedCategory string  `json:"predicted_category" binding:"required"`
	Confidence        float64 `json:"confidence"`
	Severity          string  `json:"severity"`
	ClinicianCategory string  `json:"clinician_category" binding:"required"`
	ClinicianAgreed   bool    `json:"clinician_agreed"`
	Notes             string  `json:"notes"`
}

// handleSaveFeedback stores or updates clinician feedback for a case.
func (s *Server) handleSaveFeedback(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "feedback storage is not configured"})
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback body: " + err.Error()})
		return
	}

	if _, ok := s.catalog.CategoryByID(req.PredictedCategory); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown predicted category: " + req.PredictedCategory})
		return
	}
	if _, ok := s.catalog.CategoryByID(req.ClinicianCategory); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown clinician category: " + req.ClinicianCategory})
		return
	}

	fb := &feedback.Feedback{
		CaseID:            req.CaseID,
		Input:             req.Input,
		PredictedCategory: req.PredictedCategory,
		Confidence:        req.Confidence,
		Severity:          domain.Severity(req.Severity),
		ClinicianCategory: req.ClinicianCategory,
		ClinicianAgreed:   req.ClinicianAgreed,
		Notes:             req.Notes,
	}

	if err := s.store.Save(c.Request.Context(), fb); err != nil {
		s.logger.WithError(err).Error("Failed to save feedback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save feedback"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "saved", "id": fb.ID})
}

// handleListFeedback lists stored feedback with pagination.
func (s *Server) handleListFeedback(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "feedback storage is not configured"})
		return
	}

	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	entries, err := s.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list feedback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list feedback"})
		return
	}

	total, err := s.store.Count(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to count feedback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count feedback"})
		return
	}

	if entries == nil {
		entries = []*feedback.Feedback{}
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": entries,
		"count":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// handleGetFeedback fetches one case's feedback.
func (s *Server) handleGetFeedback(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "feedback storage is not configured"})
		return
	}

	caseID := c.Param("case_id")
	fb, err := s.store.Get(c.Request.Context(), caseID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get feedback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get feedback"})
		return
	}
	if fb == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no feedback for case: " + caseID})
		return
	}

	c.JSON(http.StatusOK, fb)
}

func parseQueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
