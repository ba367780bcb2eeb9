// Package metrics provides Prometheus instrumentation for the proxy.
//
// All metrics live in a private registry so the /metrics endpoint only
// exposes hermes metrics, under a configurable namespace (default "hermes"):
//
//   - hermes_requests_total{status}: proxied requests by response status code
//   - hermes_request_duration_seconds: end-to-end request duration
//   - hermes_rate_limited_total: requests denied by the rate limiter
//   - hermes_rate_limit_tracked_keys: client keys currently tracked
//   - hermes_upstream_requests_total{status_class}: upstream calls by class
//   - hermes_upstream_latency_seconds: upstream call latency
//
// The Collector is the single entry point: components record through its
// methods and the HTTP server mounts Collector.Handler().
package metrics
