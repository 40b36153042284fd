package database

import (
	"context"
	"io"
	"net/url"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mediguard-triage-server/internal/domain"
)

// liveConfig builds a DatabaseConfig from TEST_DATABASE_URL, skipping the
// test when it is unset.
func liveConfig(t *testing.T) domain.DatabaseConfig {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL tests")
	}

	parsed, err := url.Parse(dbURL)
	require.NoError(t, err)

	port := 5432
	if p := parsed.Port(); p != "" {
		port, err = strconv.Atoi(p)
		require.NoError(t, err)
	}

	password, _ := parsed.User.Password()
	sslMode := parsed.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return domain.DatabaseConfig{
		Host:            parsed.Hostname(),
		Port:            port,
		Database:        parsed.Path[1:],
		Username:        parsed.User.Username(),
		Password:        password,
		SSLMode:         sslMode,
		MaxConns:        10,
		MinConns:        2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

func TestDatabaseConnection(t *testing.T) {
	ctx := context.Background()
	config := liveConfig(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := NewConnection(ctx, config, logger)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Health(ctx))

	stats := db.Stats()
	require.NotZero(t, stats.TotalConns(), "Expected at least one connection in pool")
}
