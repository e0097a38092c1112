package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/alex-user-go/packages/internal/listing"
)

// listingsHandler serves the fixture catalog with random latency and failures.
type listingsHandler struct {
	catalog     catalog
	failureRate float64
	logger      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func newListingsHandler(c catalog, rng *rand.Rand, failureRate float64, logger *slog.Logger) *listingsHandler {
	return &listingsHandler{
		catalog:     c,
		failureRate: failureRate,
		logger:      logger,
		rng:         rng,
	}
}

// delay returns a latency between 50ms and 200ms and whether the call fails.
func (h *listingsHandler) delay() (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	latency := time.Duration(50+h.rng.Intn(150)) * time.Millisecond
	return latency, h.rng.Float64() < h.failureRate
}

func (h *listingsHandler) wait(ctx context.Context) error {
	latency, fail := h.delay()
	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return context.Cause(ctx)
	}
	if fail {
		return errCatalogUnavailable
	}
	return nil
}

// ServeHTTP handles GET /listings/{kind}?country=XX.
func (h *listingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	country := strings.TrimSpace(r.URL.Query().Get("country"))

	var body any
	switch kind {
	case "hotels":
		body = filterCountry(h.catalog.hotels, country, func(d listing.HotelDTO) string { return d.Country })
	case "flights":
		body = filterCountry(h.catalog.flights, country, func(d listing.FlightDTO) string { return d.Country })
	case "events":
		body = filterCountry(h.catalog.events, country, func(d listing.EventDTO) string { return d.Country })
	default:
		http.Error(w, "unknown listing kind", http.StatusNotFound)
		return
	}

	if err := h.wait(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// filterCountry keeps records of the given country, case-insensitively.
// An empty country keeps everything.
func filterCountry[T any](items []T, country string, countryOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if country == "" || strings.EqualFold(strings.TrimSpace(countryOf(it)), country) {
			out = append(out, it)
		}
	}
	return out
}
