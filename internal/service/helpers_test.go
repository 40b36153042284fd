package service

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mediguard-triage-server/internal/catalog"
	"github.com/mediguard-triage-server/internal/domain"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.DefaultConfig())
	require.NoError(t, err)
	return cat
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// midpointValues returns every biomarker at its normal-range midpoint. No
// threshold rule fires on this panel and no warning is raised.
func midpointValues(t *testing.T) domain.RawValues {
	t.Helper()
	cat := testCatalog(t)
	values := make(domain.RawValues, cat.Size())
	for _, b := range cat.Biomarkers() {
		values[b.ID] = b.NormalRange.Midpoint()
	}
	return values
}

// sepsisValues is the midpoint panel with the four sepsis markers pushed
// into their abnormal ranges.
func sepsisValues(t *testing.T) domain.RawValues {
	t.Helper()
	values := midpointValues(t)
	values["procalcitonin"] = 8.5
	values["lactate"] = 5.2
	values["wbc_count"] = 18.5
	values["crp"] = 180
	return values
}
