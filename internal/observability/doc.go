// Package observability provides structured logging and metrics for the
// ask gateway.
//
// This package implements:
//   - Structured logging construction (zap-based, env-driven level/format)
//   - Prometheus metrics collection for requests and provider dispatches
package observability
