// Package observability provides structured logging, Prometheus metrics, and
// request instrumentation for the console.
//
// # Structured Logging
//
// Create a logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("path", path).Info("session bootstrapped")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.SessionRefreshTotal.WithLabelValues("success").Inc()
//
// # Request Instrumentation
//
// RequestMiddleware attaches a UUID request ID and a request-scoped logger to
// the context, logs an access line per request, and records HTTP metrics.
package observability
