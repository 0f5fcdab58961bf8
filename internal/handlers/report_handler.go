package handlers

import (
	"context"
	"net/http"

	"payments-monitor/internal/middleware"
	"payments-monitor/internal/models"
	"payments-monitor/pkg/utils"
)

// ReportReader serves snapshots and dashboards for the configured secret
type ReportReader interface {
	Report(ctx context.Context, forceRefresh bool) (*models.Report, error)
	Dashboard(ctx context.Context, forceRefresh bool) (*models.Dashboard, error)
}

// CacheController is the refresh and invalidation surface of the report service
type CacheController interface {
	RefreshNow(ctx context.Context) error
	InvalidateCache(ctx context.Context)
}

type ReportHandler struct {
	reader ReportReader
	cache  CacheController
}

func NewReportHandler(reader ReportReader, cache CacheController) *ReportHandler {
	return &ReportHandler{reader: reader, cache: cache}
}

// GetReport returns the raw reconciliation snapshot. ?refresh=1 forces a rebuild.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reader.Report(r.Context(), wantsRefresh(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set(middleware.RunIDHeader, report.RunID)
	utils.JSON(w, http.StatusOK, report)
}

// GetDashboard returns the report with ignore lists, notes and ordering applied
func (h *ReportHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reader.Dashboard(r.Context(), wantsRefresh(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set(middleware.RunIDHeader, dashboard.RunID)
	utils.JSON(w, http.StatusOK, dashboard)
}

// Refresh rebuilds the report now
func (h *ReportHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.RefreshNow(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// ClearCache drops the cached report
func (h *ReportHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.cache.InvalidateCache(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func wantsRefresh(r *http.Request) bool {
	switch r.URL.Query().Get("refresh") {
	case "1", "true", "yes":
		return true
	}
	return false
}
