// Package metrics provides the central Prometheus registry reference
// for the Companies House client. Metrics are defined in their owning
// packages (registry, ratelimit, batch) via promauto to keep them next
// to the code they measure; this package documents them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by all packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/registry):
//   - registry_requests_total{endpoint, status} (Counter): Requests by
//     endpoint label (profile, search, link) and HTTP status (or
//     network_error)
//   - registry_request_duration_seconds{endpoint} (Histogram): Request
//     duration including throttle wait
//   - registry_empty_results_total{cause} (Counter): Lookups that
//     collapsed to an empty result, by cause (status, network, decode,
//     request, cancelled)
//
// Throttle Metrics (pkg/ratelimit):
//   - registry_throttle_requests_total (Counter): Calls released by the
//     inter-request throttle
//   - registry_throttle_wait_seconds (Histogram): Time spent blocked
//     waiting for the interval
//
// Batch Metrics (pkg/batch):
//   - batch_rows_total{outcome} (Counter): Rows processed by outcome
//     (resolved, blank, no_result)
//
// Example Prometheus Queries:
//
//   # Empty result rate
//   sum(rate(registry_empty_results_total[5m])) /
//   sum(rate(registry_requests_total[5m]))
//
//   # P95 request latency (includes throttle wait)
//   histogram_quantile(0.95, rate(registry_request_duration_seconds_bucket[5m]))
//
//   # Share of batch rows that resolved
//   rate(batch_rows_total{outcome="resolved"}[5m]) /
//   sum(rate(batch_rows_total[5m]))
