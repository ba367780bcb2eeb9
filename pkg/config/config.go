package config

import (
	"time"
)

// Config is the root configuration for the Hermes proxy.
// It is loaded from a YAML file, filled in with defaults, and may be
// overridden by HERMES_* environment variables (see load.go).
type Config struct {
	// Proxy contains the HTTP server settings.
	Proxy ProxyConfig `yaml:"proxy"`

	// Upstream contains the chat-completion upstream settings.
	Upstream UpstreamConfig `yaml:"upstream"`

	// RateLimit contains the per-client fixed-window limiter settings.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProxyConfig contains HTTP server configuration.
type ProxyConfig struct {
	// ListenAddress is the address the proxy listens on (e.g., ":8080").
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownTimeout is how long to wait for in-flight requests on shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// CORS contains cross-origin settings for browser callers.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains cross-origin resource sharing configuration.
// The proxy sits in front of browser clients, so CORS headers are attached
// to every response, not only preflights.
type CORSConfig struct {
	// AllowedOrigins is the list of allowed origins. ["*"] allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// UpstreamConfig contains configuration for the chat-completion upstream.
type UpstreamConfig struct {
	// BaseURL is the upstream API base URL (e.g., "https://api.openai.com").
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv names the environment variable holding the upstream
	// credential. The key is read at request time and never logged or
	// returned to clients.
	APIKeyEnv string `yaml:"api_key_env"`

	// Timeout bounds a single upstream call, including connection setup
	// and reading the full response body.
	Timeout time.Duration `yaml:"timeout"`

	// DefaultModel is used when the client request omits a model.
	DefaultModel string `yaml:"default_model"`

	// DefaultMaxTokens is used when the client request omits max_tokens.
	DefaultMaxTokens int `yaml:"default_max_tokens"`

	// DefaultTemperature is used when the client request omits temperature.
	// A client-supplied zero is forwarded as zero, not replaced.
	DefaultTemperature float64 `yaml:"default_temperature"`

	// MaxIdleConns is the connection pool size for the upstream client.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the per-host connection pool size.
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long idle upstream connections are kept.
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// RateLimitConfig contains the fixed-window limiter configuration.
type RateLimitConfig struct {
	// Limit is the number of requests allowed per client key per window.
	Limit int `yaml:"limit"`

	// Window is the fixed window duration.
	Window time.Duration `yaml:"window"`

	// SweepSchedule is a cron expression controlling how often expired
	// window records are evicted from the store. Empty disables the sweep.
	SweepSchedule string `yaml:"sweep_schedule"`

	// MaxEntries caps the number of tracked client keys. The oldest record
	// is evicted when the cap is reached.
	MaxEntries int `yaml:"max_entries"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace"`
}
