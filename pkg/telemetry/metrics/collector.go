package metrics

import (
	"relay-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the main orchestrator for all Prometheus metrics in hermes.
// It manages metric registration and provides a unified interface for
// recording metrics across all components.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Request metrics
	requestMetrics *RequestMetrics

	// Rate limit metrics
	rateLimitMetrics *RateLimitMetrics

	// Upstream metrics
	upstreamMetrics *UpstreamMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a private
// registry is created so the metrics endpoint only exposes hermes metrics.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "hermes",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "hermes"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.rateLimitMetrics = NewRateLimitMetrics(cfg, registry)
	c.upstreamMetrics = NewUpstreamMetrics(cfg, registry)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRequest records a completed proxied request by status code.
func (c *Collector) RecordRequest(statusCode int, seconds float64) {
	c.requestMetrics.Record(statusCode, seconds)
}

// RecordRateLimited records a request denied by the rate limiter.
func (c *Collector) RecordRateLimited() {
	c.rateLimitMetrics.RecordLimited()
}

// TrackKeyCount registers a gauge that reports the number of client keys the
// rate limiter currently tracks. fn is called on every scrape.
func (c *Collector) TrackKeyCount(fn func() int) {
	c.rateLimitMetrics.TrackKeyCount(c.config, c.registry, fn)
}

// ObserveUpstream records the outcome of an upstream call, bucketed by
// status class ("2xx", "4xx", "5xx", or "error" for transport failures).
func (c *Collector) ObserveUpstream(statusClass string, seconds float64) {
	c.upstreamMetrics.Observe(statusClass, seconds)
}
