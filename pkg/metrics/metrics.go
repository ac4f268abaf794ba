// Package metrics provides the centralized Prometheus metrics registry
// for the CDO fetch library. All metrics are defined in their
// respective packages (client, cache, ratelimit, pagination) to
// maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the library.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - cdo_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - cdo_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - cdo_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Pagination Metrics (pkg/pagination):
//   - cdo_pages_fetched_total{endpoint} (Counter): Pages fetched by endpoint
//   - cdo_records_fetched_total{endpoint} (Counter): Records accumulated by endpoint
//   - cdo_windows_total{outcome} (Counter): Date windows drained, by "complete"/"failed"
//
// Rate Limit Metrics (pkg/ratelimit):
//   - cdo_rate_limit_wait_seconds (Histogram): Time spent waiting on the request pacer
//   - cdo_budget_remaining (Gauge): Requests remaining in today's budget
//   - cdo_budget_blocks_total (Counter): Requests blocked on exhausted budget
//
// Cache Metrics (pkg/cache):
//   - cdo_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - cdo_cache_misses_total (Counter): Cache misses
//   - cdo_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - cdo_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(cdo_cache_hits_total[5m])) /
//   (sum(rate(cdo_cache_hits_total[5m])) + sum(rate(cdo_cache_misses_total[5m])))
//
//   # Daily Budget Status
//   cdo_budget_remaining < 500
//
//   # Request Error Rate
//   rate(cdo_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(cdo_request_duration_seconds_bucket[5m]))
//
//   # Truncated Window Rate
//   rate(cdo_windows_total{outcome="failed"}[1h])
