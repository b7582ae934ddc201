// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts HTTP requests by method, route template and status
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avgspeed_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	// APIRequestDuration observes HTTP request latency
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "avgspeed_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ReportsSubmittedTotal counts avg-speed report submissions by outcome
	ReportsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avgspeed_reports_submitted_total",
			Help: "Avg-speed report submissions by result (ok, invalid, error)",
		},
		[]string{"result"},
	)

	// ReportsStored is the number of reports in the store at the last refresh
	ReportsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "avgspeed_reports_stored",
			Help: "Number of avg-speed reports currently stored",
		},
	)
)

// RecordAPIRequest records one finished request
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSubmission records the outcome of a report submission
func RecordSubmission(result string) {
	ReportsSubmittedTotal.WithLabelValues(result).Inc()
}
