// Package observability provides structured logging and metrics for the
// EstateLink API.
//
// This package implements:
//   - zap logger construction from configured level and format
//   - Prometheus metrics collection (request counts, latencies, auth failures)
//   - Scrape handler for the /metrics endpoint
package observability
