package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/alex-user-go/packages/internal/bundle"
	"github.com/alex-user-go/packages/internal/middleware"
	"github.com/alex-user-go/packages/internal/quote"
)

const defaultQuoteFormat = "txt"

// QuoteHandler handles /packages/{id}/quote requests. The package is rebuilt
// from the same search parameters used to list it.
func (h *Handler) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.IncRequests()
	requestID := middleware.RequestID(r.Context())

	ip, ok := h.allow(w, r)
	if !ok {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "package id is required")
		return
	}

	params, err := ParsePackageParams(r)
	if err != nil {
		h.logger.Debug("invalid request parameters", "request_id", requestID, "error", err, "ip", ip)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if strings.TrimSpace(format) == "" {
		format = defaultQuoteFormat
	}
	renderer, err := h.renderers.Get(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, _, err := h.snapshot(r.Context(), params.Country)
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

	pkg, err := bundle.Find(params.Query(), snap.Hotels, snap.Flights, snap.Events, id)
	if errors.Is(err, bundle.ErrNotFound) {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}

	q := quote.New(pkg, params.Country, params.Guests, h.now())
	body, err := renderer.Render(q)
	if err != nil {
		h.logger.Error("quote render failed",
			"request_id", requestID,
			"error", err,
			"package", id,
			"format", renderer.Key(),
		)
		writeError(w, http.StatusInternalServerError, "quote rendering failed")
		return
	}
	h.metrics.IncQuotesRendered()

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", q.Filename(renderer.Extension())))
	w.Header().Set("X-Quote-Reference", q.Reference)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write quote", "request_id", requestID, "error", err)
	}
}
