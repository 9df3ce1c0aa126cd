package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the console
type Metrics struct {
	// Gateway HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionRefreshTotal *prometheus.CounterVec // outcome: success, failure
	SessionRenewalTotal *prometheus.CounterVec // outcome: success, failure
	SessionStatus       prometheus.Gauge       // 0=unauthenticated, 1=loading, 2=authenticated

	// Backend API client metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIRetriesTotal    prometheus.Counter

	// Guard metrics
	GuardDecisionsTotal *prometheus.CounterVec // decision: allow, loading, redirect
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_http_requests_total",
				Help: "Total number of gateway HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_http_request_duration_seconds",
				Help:    "Gateway HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		SessionRefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_session_refresh_total",
				Help: "Total number of access token refresh attempts",
			},
			[]string{"outcome"},
		),
		SessionRenewalTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_session_renewal_total",
				Help: "Total number of scheduled session renewals",
			},
			[]string{"outcome"},
		),
		SessionStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "console_session_status",
				Help: "Current session status (0=unauthenticated, 1=loading, 2=authenticated)",
			},
		),
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_api_requests_total",
				Help: "Total number of backend API requests",
			},
			[]string{"method", "status"},
		),
		APIRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_api_request_duration_seconds",
				Help:    "Backend API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		APIRetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "console_api_retries_total",
				Help: "Total number of 401 refresh-and-retry cycles",
			},
		),
		GuardDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_guard_decisions_total",
				Help: "Total number of route guard decisions",
			},
			[]string{"decision"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SessionRefreshTotal,
		m.SessionRenewalTotal,
		m.SessionStatus,
		m.APIRequestsTotal,
		m.APIRequestDuration,
		m.APIRetriesTotal,
		m.GuardDecisionsTotal,
	)

	return m
}

// Handler returns the Prometheus metrics HTTP handler for the registry
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the response status for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// InstrumentHandler records request count and duration for a gateway handler
func (m *Metrics) InstrumentHandler(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
