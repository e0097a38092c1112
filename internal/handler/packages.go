package handler

import (
	"net/http"
	"time"

	"github.com/alex-user-go/packages/internal/bundle"
	"github.com/alex-user-go/packages/internal/middleware"
	"github.com/alex-user-go/packages/internal/search/types"
)

// PackagesResponse represents the complete API response.
type PackagesResponse struct {
	Search   SearchInfo      `json:"search"`
	Stats    SearchStats     `json:"stats"`
	Packages []bundle.Bundle `json:"packages"`
}

// SearchInfo contains the search parameters.
type SearchInfo struct {
	Country string `json:"country"`
	From    string `json:"from"`
	To      string `json:"to"`
	Guests  int    `json:"guests"`
	Stars   string `json:"stars"`
}

// SearchStats contains search statistics.
type SearchStats struct {
	CollectionsTotal     int      `json:"collections_total"`
	CollectionsSucceeded int      `json:"collections_succeeded"`
	CollectionsFailed    []string `json:"collections_failed,omitempty"`
	DroppedRecords       int      `json:"dropped_records"`
	Packages             int      `json:"packages"`
	Cache                string   `json:"cache"`
	DurationMs           int64    `json:"duration_ms"`
}

// PackagesHandler handles /packages requests.
func (h *Handler) PackagesHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	h.metrics.IncRequests()
	requestID := middleware.RequestID(r.Context())

	ip, ok := h.allow(w, r)
	if !ok {
		return
	}

	params, err := ParsePackageParams(r)
	if err != nil {
		h.logger.Debug("invalid request parameters", "request_id", requestID, "error", err, "ip", ip)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, cacheHit, err := h.snapshot(r.Context(), params.Country)
	if err != nil {
		h.logger.Error("catalog load failed",
			"request_id", requestID,
			"error", err,
			"country", params.Country,
			"ip", ip,
		)
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}

	packages := bundle.Build(params.Query(), snap.Hotels, snap.Flights, snap.Events)
	h.metrics.AddPackagesServed(len(packages))

	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
	}

	response := PackagesResponse{
		Search: SearchInfo{
			Country: params.Country,
			From:    params.From.Format(dateLayout),
			To:      params.To.Format(dateLayout),
			Guests:  params.Guests,
			Stars:   params.StarsLabel(),
		},
		Stats: SearchStats{
			CollectionsTotal:     types.CollectionsTotal,
			CollectionsSucceeded: snap.Succeeded(),
			CollectionsFailed:    snap.Failed,
			DroppedRecords:       snap.Dropped,
			Packages:             len(packages),
			Cache:                cacheStatus,
			DurationMs:           time.Since(startTime).Milliseconds(),
		},
		Packages: packages,
	}

	writeJSON(w, h.logger, http.StatusOK, response)
}
