package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alex-user-go/packages/internal/middleware"
	"github.com/alex-user-go/packages/internal/obs"
	"github.com/alex-user-go/packages/internal/quote"
	"github.com/alex-user-go/packages/internal/search/types"
)

// SnapshotLoader loads the catalog for a destination.
type SnapshotLoader interface {
	Load(ctx context.Context, country string) (*types.Snapshot, error)
}

// SnapshotCache caches loaded snapshots.
type SnapshotCache interface {
	Key(country string) string
	GetOrFetch(ctx context.Context, key string, fetch func() (*types.Snapshot, error)) (*types.Snapshot, bool, error)
}

// Limiter decides whether a client may make another request.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Handler handles HTTP requests.
type Handler struct {
	loader      SnapshotLoader
	cache       SnapshotCache
	rateLimiter Limiter
	renderers   *quote.Registry
	metrics     *obs.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a new Handler.
func New(
	loader SnapshotLoader,
	snapshotCache SnapshotCache,
	rateLimiter Limiter,
	renderers *quote.Registry,
	metrics *obs.Metrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		loader:      loader,
		cache:       snapshotCache,
		rateLimiter: rateLimiter,
		renderers:   renderers,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// allow applies the rate limit and writes a 429 when it is exceeded.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request) (string, bool) {
	ip := ExtractIP(r)
	if !h.rateLimiter.Allow(r.Context(), ip) {
		h.metrics.IncRateLimited()
		h.logger.Warn("rate limit exceeded",
			"request_id", middleware.RequestID(r.Context()),
			"ip", ip)
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return ip, false
	}
	return ip, true
}

// snapshot returns the cached catalog snapshot for country, loading it on a miss.
func (h *Handler) snapshot(ctx context.Context, country string) (*types.Snapshot, bool, error) {
	key := h.cache.Key(country)
	snap, hit, err := h.cache.GetOrFetch(ctx, key, func() (*types.Snapshot, error) {
		return h.loader.Load(ctx, country)
	})
	if err != nil {
		return nil, false, err
	}
	if hit {
		h.metrics.IncCacheHits()
	}
	return snap, hit, nil
}

// ExtractIP extracts the client IP from the request.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func ExtractIP(r *http.Request) string {
	// Check X-Forwarded-For (first IP in the list)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr (strip port)
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Can't change status after WriteHeader, just log
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
