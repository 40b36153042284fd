// Package feedback provides clinician feedback storage for triage
// predictions. It stores agreements and corrections so prediction quality
// can be reviewed against clinical judgement.
package feedback

import (
	"context"
	"io"
	"time"

	"github.com/mediguard-triage-server/internal/domain"
)

// Feedback represents a clinician's review of one triage prediction.
type Feedback struct {
	ID                int64           `json:"id,omitempty"`
	CaseID            string          `json:"case_id"`                      // Caller-supplied case identifier
	Input             string          `json:"input"`                        // Original biomarker input
	PredictedCategory string          `json:"predicted_category"`           // System's prediction
	Confidence        float64         `json:"confidence"`                   // Prediction confidence
	Severity          domain.Severity `json:"severity"`                     // Predicted severity
	ClinicianCategory string          `json:"clinician_category"`           // Clinician's final call
	ClinicianAgreed   bool            `json:"clinician_agreed"`             // Did the clinician agree?
	Notes             string          `json:"notes,omitempty"`              // Free-form notes
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Store defines the interface for feedback storage operations.
type Store interface {
	// Save stores or updates feedback for a case.
	// If feedback for the same case_id exists, it will be updated.
	Save(ctx context.Context, feedback *Feedback) error

	// Get retrieves feedback for a case. Returns nil when none exists.
	Get(ctx context.Context, caseID string) (*Feedback, error)

	// List returns feedback entries with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]*Feedback, error)

	// Count returns the total number of feedback entries.
	Count(ctx context.Context) (int64, error)

	// Delete removes a feedback entry by ID.
	Delete(ctx context.Context, id int64) error

	// ExportJSON exports all feedback to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports feedback from a JSON reader.
	// Returns the number of imported and skipped entries.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// Export represents the JSON export format.
type Export struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Count      int         `json:"count"`
	Feedback   []*Feedback `json:"feedback"`
}
