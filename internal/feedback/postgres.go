package feedback

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"

	"github.com/mediguard-triage-server/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL feedback store.
// It expects the database and schema to already exist (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL feedback store from a connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Save stores or updates feedback for a case.
func (s *PostgresStore) Save(ctx context.Context, feedback *Feedback) error {
	now := time.Now()

	query := `
		INSERT INTO feedback (
			case_id, input, predicted_category, confidence, severity,
			clinician_category, clinician_agreed, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (case_id) DO UPDATE SET
			input = EXCLUDED.input,
			predicted_category = EXCLUDED.predicted_category,
			confidence = EXCLUDED.confidence,
			severity = EXCLUDED.severity,
			clinician_category = EXCLUDED.clinician_category,
			clinician_agreed = EXCLUDED.clinician_agreed,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		feedback.CaseID,
		feedback.Input,
		feedback.PredictedCategory,
		feedback.Confidence,
		string(feedback.Severity),
		feedback.ClinicianCategory,
		feedback.ClinicianAgreed,
		feedback.Notes,
		now,
		now,
	).Scan(&feedback.ID, &feedback.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	feedback.UpdatedAt = now
	return nil
}

// Get retrieves feedback for a case.
func (s *PostgresStore) Get(ctx context.Context, caseID string) (*Feedback, error) {
	query := `
		SELECT id, case_id, input, predicted_category, confidence, severity,
			clinician_category, clinician_agreed, notes, created_at, updated_at
		FROM feedback
		WHERE case_id = $1
		LIMIT 1
	`

	fb := &Feedback{}
	var severity string

	err := s.db.QueryRowContext(ctx, query, caseID).Scan(
		&fb.ID, &fb.CaseID, &fb.Input, &fb.PredictedCategory,
		&fb.Confidence, &severity, &fb.ClinicianCategory,
		&fb.ClinicianAgreed, &fb.Notes, &fb.CreatedAt, &fb.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	fb.Severity = domain.Severity(severity)
	return fb, nil
}

// List returns feedback entries with pagination, newest first.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*Feedback, error) {
	query := `
		SELECT id, case_id, input, predicted_category, confidence, severity,
			clinician_category, clinician_agreed, notes, created_at, updated_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var result []*Feedback
	for rows.Next() {
		fb := &Feedback{}
		var severity string

		err := rows.Scan(
			&fb.ID, &fb.CaseID, &fb.Input, &fb.PredictedCategory,
			&fb.Confidence, &severity, &fb.ClinicianCategory,
			&fb.ClinicianAgreed, &fb.Notes, &fb.CreatedAt, &fb.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		fb.Severity = domain.Severity(severity)
		result = append(result, fb)
	}
	return result, rows.Err()
}

// Count returns the total number of feedback entries.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&count)
	return count, err
}

// Delete removes a feedback entry by ID.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM feedback WHERE id = $1", id)
	return err
}

// ExportJSON exports all feedback to a JSON writer.
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}

	export := &Export{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Count:      len(all),
		Feedback:   all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// ImportJSON imports feedback from a JSON reader.
func (s *PostgresStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	var export Export
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, fb := range export.Feedback {
		existing, err := s.Get(ctx, fb.CaseID)
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
		}

		if existing != nil {
			skipped++
			continue
		}

		if err := s.Save(ctx, fb); err != nil {
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}

	return imported, skipped, nil
}

// Close closes the store and releases resources.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
