// Package httphandler implements the HTTP driving adapter that serves the
// dashboard API consumed by the rendering surface.
package httphandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/byndhq/reportdeck/internal/application"
	"github.com/byndhq/reportdeck/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	reports  *application.ReportService
	refresh  *application.RefreshService
	provider *application.SourceProvider
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	reports *application.ReportService,
	refresh *application.RefreshService,
	provider *application.SourceProvider,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		reports:  reports,
		refresh:  refresh,
		provider: provider,
		logger:   logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with request-ID, logging, and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/reports", h.ListReports)
	mux.HandleFunc("GET /api/v1/reports/summary", h.ReportSummary)
	mux.HandleFunc("GET /api/v1/reports/export", h.ExportCSV)
	mux.HandleFunc("GET /api/v1/status", h.Status)
	mux.HandleFunc("POST /api/v1/refresh", h.Refresh)
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// parseFilter builds a ReportFilter from query parameters: status, company,
// days_back, limit.
func parseFilter(r *http.Request) (model.ReportFilter, error) {
	var filter model.ReportFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		status := model.ReportStatus(v)
		if !status.IsValid() {
			return filter, fmt.Errorf("unknown status %q", v)
		}
		filter.Status = status
	}

	filter.Company = q.Get("company")

	if v := q.Get("days_back"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return filter, fmt.Errorf("days_back must be a non-negative integer, got %q", v)
		}
		if days > 0 {
			filter.Since = time.Now().UTC().AddDate(0, 0, -days)
		}
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return filter, fmt.Errorf("limit must be a positive integer, got %q", v)
		}
		filter.Limit = limit
	}

	return filter, nil
}

// ListReports returns the filtered report rows. A data source failure still
// yields a 200 with an empty records array and a user-visible error string,
// so the rendering surface can show its banner and an empty table from one
// response.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.reports.Fetch(r.Context(), filter)
	writeJSON(w, http.StatusOK, toReportsResponse(result))
}

// ReportSummary returns display-ready aggregates over the filtered rows:
// the key metrics block and the most-active-companies ranking.
func (h *Handler) ReportSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.reports.Fetch(r.Context(), filter)
	writeJSON(w, http.StatusOK, toSummaryResponse(result))
}

// ExportCSV streams the filtered rows as a CSV attachment. On a data source
// failure the export degrades to a header-only file; the error is reported
// in a trailer-safe response header rather than corrupting the CSV body.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.reports.Fetch(r.Context(), filter)

	filename := fmt.Sprintf("one_pager_reports_%s.csv", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if result.Err != nil {
		w.Header().Set("X-Data-Source-Error", result.Err.Error())
	}

	if err := application.WriteCSV(w, result.Records); err != nil {
		h.logger.Error("csv export failed", "error", err)
	}
}

// Status reports the active source mode so the rendering surface can show
// the demo-mode warning banner.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	desc, resolvedAt := h.provider.Descriptor()
	writeJSON(w, http.StatusOK, toStatusResponse(desc, resolvedAt))
}

// Refresh re-runs credential resolution and hot-swaps the data source. The
// next fetch uses the newly resolved descriptor.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	desc := h.refresh.Refresh()
	_, resolvedAt := h.provider.Descriptor()
	writeJSON(w, http.StatusOK, toStatusResponse(desc, resolvedAt))
}

// Health is the liveness endpoint used by the container healthcheck.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
