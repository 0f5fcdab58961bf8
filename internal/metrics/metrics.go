package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_monitor_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payments_monitor_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ReportRefreshTotal counts rebuilds by trigger (request, forced, scheduled) and outcome
	ReportRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_monitor_report_refresh_total",
			Help: "Report rebuilds by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)

	ReportRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payments_monitor_report_refresh_duration_seconds",
			Help:    "Wall time of a full pull and rebuild",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	ReportCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_monitor_report_cache_lookups_total",
			Help: "Report cache lookups by result (hit, superseded, shared_hit, miss)",
		},
		[]string{"result"},
	)

	ReportCustomers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "payments_monitor_report_customers",
		Help: "Merged customers in the latest report",
	})

	ReportOverdueCustomers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "payments_monitor_report_overdue_customers",
		Help: "Overdue customers in the latest report, before ignore lists",
	})

	ReportUnmatchedSites = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "payments_monitor_report_unmatched_sites",
		Help: "Managed sites without a customer in the latest report",
	})
)
