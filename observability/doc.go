// Package observability provides an OpenTelemetry metrics extension for
// Yuva. The MetricsExtension implements lifecycle hooks to record
// system-wide counters for deletion runs, cleanup step statuses and
// deleted records.
//
// For per-step tracing and metrics, see the middleware package:
// middleware.Tracing() and middleware.Metrics().
package observability
