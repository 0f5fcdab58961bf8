package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"payments-monitor/internal/handlers"
	"payments-monitor/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	preferenceHandler *handlers.PreferenceHandler,
	siteHandler *handlers.SiteHandler,
	healthHandler *handlers.HealthHandler,
	events http.HandlerFunc,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.AccessLog)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Reconciliation report
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.HandleFunc("/report", reportHandler.GetReport).Methods("GET")
	api.HandleFunc("/report/refresh", reportHandler.Refresh).Methods("POST")
	api.HandleFunc("/report/cache", reportHandler.ClearCache).Methods("DELETE")
	api.HandleFunc("/dashboard", reportHandler.GetDashboard).Methods("GET")

	// Protected API routes - Dashboard actions and settings
	api.HandleFunc("/actions", preferenceHandler.ApplyAction).Methods("POST")
	api.HandleFunc("/settings/secret", preferenceHandler.SaveSecret).Methods("PUT")
	api.HandleFunc("/settings/clear", preferenceHandler.ClearLists).Methods("POST")

	// Protected API routes - Managed sites
	api.HandleFunc("/sites", siteHandler.List).Methods("GET")
	api.HandleFunc("/sites", siteHandler.Upsert).Methods("PUT")
	api.HandleFunc("/sites", siteHandler.Delete).Methods("DELETE")

	// Live report events
	r.Handle("/ws/events", authMiddleware.Authenticate(events)).Methods("GET")

	// Health endpoints (no auth)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}
