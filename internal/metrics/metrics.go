package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the portal backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Discord API Metrics
	DiscordCallsTotal   prometheus.CounterVec
	DiscordCallFailures prometheus.CounterVec

	// Workflow Metrics
	LoginsTotal           prometheus.Counter
	SubmissionsTotal      prometheus.CounterVec
	ReviewsResolvedTotal  prometheus.CounterVec
	StaleReviewEvents     prometheus.Counter
	AuditEventsDropped    prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "santamaria_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "santamaria_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "santamaria_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		DiscordCallsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "santamaria_discord_calls_total",
				Help: "Total Discord REST calls by operation",
			},
			[]string{"operation"},
		),
		DiscordCallFailures: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "santamaria_discord_call_failures_total",
				Help: "Failed Discord REST calls by operation",
			},
			[]string{"operation"},
		),

		LoginsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "santamaria_logins_total",
				Help: "Total successful portal logins",
			},
		),
		SubmissionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "santamaria_whitelist_submissions_total",
				Help: "Whitelist submissions by outcome (accepted, duplicate, failed)",
			},
			[]string{"outcome"},
		),
		ReviewsResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "santamaria_reviews_resolved_total",
				Help: "Review resolutions committed, by decision",
			},
			[]string{"decision"},
		),
		StaleReviewEvents: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "santamaria_stale_review_events_total",
				Help: "Interaction events acknowledged after the subject was already resolved",
			},
		),
		AuditEventsDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "santamaria_audit_events_dropped_total",
				Help: "Audit events dropped because the queue was full or delivery failed",
			},
		),
	}
}
