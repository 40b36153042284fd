package feedback

import (
	"context"
	"database/sql"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediguard-triage-server/internal/domain"
)

// getTestDB returns a live database connection for integration testing.
// Tests are skipped when TEST_DATABASE_URL is not set.
func getTestDB(t *testing.T) *sql.DB {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL tests")
	}

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS feedback (
			id BIGSERIAL PRIMARY KEY,
			case_id TEXT NOT NULL UNIQUE,
			input TEXT NOT NULL,
			predicted_category TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
			severity TEXT NOT NULL DEFAULT '',
			clinician_category TEXT NOT NULL,
			clinician_agreed BOOLEAN NOT NULL DEFAULT FALSE,
			notes TEXT DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	require.NoError(t, err)

	_, err = db.Exec("DELETE FROM feedback")
	require.NoError(t, err)

	return db
}

func TestPostgresStore_Save_Live(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	fb := sampleFeedback()

	require.NoError(t, store.Save(ctx, fb))
	assert.NotZero(t, fb.ID)

	// Saving the same case again updates in place.
	fb.ClinicianCategory = "infection"
	require.NoError(t, store.Save(ctx, fb))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := store.Get(ctx, fb.CaseID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "infection", got.ClinicianCategory)
}

func TestPostgresStore_ListAndDelete_Live(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	for _, caseID := range []string{"case-001", "case-002"} {
		fb := sampleFeedback()
		fb.CaseID = caseID
		require.NoError(t, store.Save(ctx, fb))
	}

	all, err := store.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, store.Delete(ctx, all[0].ID))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNewPostgresStore_NilDB(t *testing.T) {
	_, err := NewPostgresStore(nil)
	require.Error(t, err)
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectPing()
	store, err := NewPostgresStore(db)
	require.NoError(t, err)
	return store, mock
}

func TestPostgresStore_Save_Mock(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO feedback")).
		WithArgs("case-001", "procalcitonin=8.5, lactate=5.2", "sepsis", 0.556,
			"critical", "sepsis", true, "Blood cultures drawn, antibiotics started",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	fb := sampleFeedback()
	err := store.Save(context.Background(), fb)

	require.NoError(t, err)
	assert.Equal(t, int64(7), fb.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_Mock(t *testing.T) {
	store, mock := newMockStore(t)

	columns := []string{
		"id", "case_id", "input", "predicted_category", "confidence",
		"severity", "clinician_category", "clinician_agreed", "notes",
		"created_at", "updated_at",
	}

	t.Run("Found", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT .+ FROM feedback").
			WithArgs("case-001").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(7), "case-001", "input text", "sepsis", 0.556,
					"critical", "sepsis", true, "", now, now))

		got, err := store.Get(context.Background(), "case-001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.SeverityCritical, got.Severity)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .+ FROM feedback").
			WithArgs("case-404").
			WillReturnError(sql.ErrNoRows)

		got, err := store.Get(context.Background(), "case-404")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Count_Mock(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
