// Package metrics exposes Prometheus counters for the form pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mecahub"

var (
	// HTTPRequestsTotal counts requests by method, route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)
)

var (
	// UploadsTotal counts upload attempts by form type and outcome
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forms",
			Name:      "uploads_total",
			Help:      "File uploads by form type and outcome",
		},
		[]string{"form_type", "outcome"},
	)

	// NotificationsTotal counts notification emails by form type and outcome
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forms",
			Name:      "notifications_total",
			Help:      "Notification emails by form type and outcome",
		},
		[]string{"form_type", "outcome"},
	)

	// RateLimitRejectionsTotal counts requests refused by a limiter policy
	RateLimitRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forms",
			Name:      "rate_limit_rejections_total",
			Help:      "Requests rejected by rate limiting, by policy",
		},
		[]string{"policy"},
	)
)

// Outcome labels
const (
	OutcomeSuccess      = "success"
	OutcomeRejected     = "rejected"
	OutcomeError        = "error"
	OutcomeUnconfigured = "unconfigured"
)

// LabelUnknown replaces label values that did not pass validation.
const LabelUnknown = "unknown"

// RecordUpload increments the upload counter.
func RecordUpload(formType, outcome string) {
	UploadsTotal.WithLabelValues(formType, outcome).Inc()
}

// RecordNotification increments the notification counter.
func RecordNotification(formType, outcome string) {
	NotificationsTotal.WithLabelValues(formType, outcome).Inc()
}

// RecordRateLimited increments the rejection counter for policy.
func RecordRateLimited(policy string) {
	RateLimitRejectionsTotal.WithLabelValues(policy).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
