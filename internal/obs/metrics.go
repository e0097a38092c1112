package obs

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks application metrics using atomic counters.
type Metrics struct {
	requests       atomic.Int64
	cacheHits      atomic.Int64
	catalogErrors  atomic.Int64
	droppedRecords atomic.Int64
	packagesServed atomic.Int64
	quotesRendered atomic.Int64
	rateLimited    atomic.Int64
	logger         *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requests.Add(1)
}

// IncCacheHits increments the cache hits counter.
func (m *Metrics) IncCacheHits() {
	m.cacheHits.Add(1)
}

// IncCatalogErrors increments the failed catalog fetch counter.
func (m *Metrics) IncCatalogErrors() {
	m.catalogErrors.Add(1)
}

// AddDroppedRecords counts catalog records discarded during parsing.
func (m *Metrics) AddDroppedRecords(n int) {
	m.droppedRecords.Add(int64(n))
}

// AddPackagesServed counts packages returned to clients.
func (m *Metrics) AddPackagesServed(n int) {
	m.packagesServed.Add(int64(n))
}

// IncQuotesRendered increments the rendered quote counter.
func (m *Metrics) IncQuotesRendered() {
	m.quotesRendered.Add(1)
}

// IncRateLimited increments the rejected request counter.
func (m *Metrics) IncRateLimited() {
	m.rateLimited.Add(1)
}

// Snapshot returns current metric values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Requests:       m.requests.Load(),
		CacheHits:      m.cacheHits.Load(),
		CatalogErrors:  m.catalogErrors.Load(),
		DroppedRecords: m.droppedRecords.Load(),
		PackagesServed: m.packagesServed.Load(),
		QuotesRendered: m.quotesRendered.Load(),
		RateLimited:    m.rateLimited.Load(),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	Requests       int64
	CacheHits      int64
	CatalogErrors  int64
	DroppedRecords int64
	PackagesServed int64
	QuotesRendered int64
	RateLimited    int64
}

type counter struct {
	name  string
	help  string
	value int64
}

func (s MetricsSnapshot) counters() []counter {
	return []counter{
		{"requests_total", "Total number of requests", s.Requests},
		{"cache_hits_total", "Total number of catalog cache hits", s.CacheHits},
		{"catalog_errors_total", "Total number of failed catalog fetches", s.CatalogErrors},
		{"catalog_dropped_records_total", "Total number of malformed catalog records dropped", s.DroppedRecords},
		{"packages_served_total", "Total number of packages returned", s.PackagesServed},
		{"quotes_rendered_total", "Total number of quotes rendered", s.QuotesRendered},
		{"rate_limited_total", "Total number of rate limited requests", s.RateLimited},
	}
}

// HealthHandler returns a handler for /healthz requests.
func HealthHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	}
}

// MetricsHandler returns a handler for /metrics requests in Prometheus format.
func (m *Metrics) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := m.Snapshot()

		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)

		for _, c := range snapshot.counters() {
			if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n",
				c.name, c.help, c.name, c.name, c.value); err != nil {
				m.logger.Error("failed to write metrics", "error", err)
				return
			}
		}
	}
}
