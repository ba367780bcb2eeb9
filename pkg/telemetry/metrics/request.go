package metrics

import (
	"strconv"

	"relay-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks metrics for proxied HTTP requests.
//
// Metrics:
//   - hermes_requests_total: Total request count by status code
//   - hermes_request_duration_seconds: Request duration histogram
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewRequestMetrics creates and registers request metrics with the provided
// registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total number of proxied requests by response status code",
			},
			[]string{"status"},
		),

		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_duration_seconds",
				Help:      "End-to-end duration of proxied requests in seconds",
				// Chat completions routinely take seconds.
				Buckets: []float64{0.005, 0.05, 0.25, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
		),
	}

	registry.MustRegister(rm.requestsTotal, rm.requestDuration)
	return rm
}

// Record records a completed request.
func (rm *RequestMetrics) Record(statusCode int, seconds float64) {
	rm.requestsTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	rm.requestDuration.Observe(seconds)
}

// RateLimitMetrics tracks rate limiter activity.
//
// Metrics:
//   - hermes_rate_limited_total: Requests denied by the rate limiter
//   - hermes_rate_limit_tracked_keys: Client keys currently tracked
type RateLimitMetrics struct {
	limitedTotal prometheus.Counter
}

// NewRateLimitMetrics creates and registers rate limit metrics with the
// provided registry.
func NewRateLimitMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RateLimitMetrics {
	rl := &RateLimitMetrics{
		limitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rate_limited_total",
				Help:      "Total number of requests denied by the rate limiter",
			},
		),
	}

	registry.MustRegister(rl.limitedTotal)
	return rl
}

// RecordLimited records a denied request.
func (rl *RateLimitMetrics) RecordLimited() {
	rl.limitedTotal.Inc()
}

// TrackKeyCount registers a gauge backed by fn, evaluated on every scrape.
func (rl *RateLimitMetrics) TrackKeyCount(cfg *config.MetricsConfig, registry *prometheus.Registry, fn func() int) {
	registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "rate_limit_tracked_keys",
			Help:      "Number of client keys currently tracked by the rate limiter",
		},
		func() float64 { return float64(fn()) },
	))
}

// UpstreamMetrics tracks calls to the upstream AI service.
//
// Metrics:
//   - hermes_upstream_requests_total: Upstream calls by status class
//   - hermes_upstream_latency_seconds: Upstream call latency histogram
type UpstreamMetrics struct {
	requestsTotal *prometheus.CounterVec
	latency       prometheus.Histogram
}

// NewUpstreamMetrics creates and registers upstream metrics with the
// provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of upstream calls by status class",
			},
			[]string{"status_class"},
		),

		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_latency_seconds",
				Help:      "Latency of upstream calls in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
		),
	}

	registry.MustRegister(um.requestsTotal, um.latency)
	return um
}

// Observe records one upstream call outcome.
func (um *UpstreamMetrics) Observe(statusClass string, seconds float64) {
	um.requestsTotal.WithLabelValues(statusClass).Inc()
	um.latency.Observe(seconds)
}
