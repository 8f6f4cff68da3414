// Package metrics exposes Prometheus collectors for the HTTP layer and the bidding engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Bid outcome labels
const (
	OutcomeCreated    = "created"
	OutcomeUpdated    = "updated"
	OutcomeRejected   = "rejected"
	OutcomeWithdrawn  = "withdrawn"
	OutcomeWinnerPick = "winner_selected"
)

// Metrics owns a private registry so tests can create as many instances as they like
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	bidOutcomes  *prometheus.CounterVec
}

// New creates and registers all collectors under the given namespace
func New(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served.",
		},
		[]string{"method", "route", "status"},
	)
	m.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.bidOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bid_operations_total",
			Help:      "Bid ledger operations by outcome.",
		},
		[]string{"outcome"},
	)

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.bidOutcomes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveBid records a bid ledger outcome
func (m *Metrics) ObserveBid(outcome string) {
	m.bidOutcomes.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
