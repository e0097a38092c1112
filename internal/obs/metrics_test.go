package obs

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.IncRequests()
	m.IncRequests()
	m.IncCacheHits()
	m.IncCatalogErrors()
	m.AddDroppedRecords(3)
	m.AddPackagesServed(40)
	m.IncQuotesRendered()
	m.IncRateLimited()

	rec := httptest.NewRecorder()
	m.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; version=0.0.4", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	for _, line := range []string{
		"# TYPE requests_total counter",
		"requests_total 2",
		"cache_hits_total 1",
		"catalog_errors_total 1",
		"catalog_dropped_records_total 3",
		"packages_served_total 40",
		"quotes_rendered_total 1",
		"rate_limited_total 1",
	} {
		assert.Contains(t, body, line+"\n")
	}
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler(slog.New(slog.NewTextHandler(io.Discard, nil))).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
