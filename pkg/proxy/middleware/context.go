package middleware

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// Context keys for storing values in request context.
const (
	// RequestIDKey stores the unique request ID.
	RequestIDKey contextKey = "request_id"

	// StartTimeKey stores the request start time for latency calculation.
	StartTimeKey contextKey = "start_time"

	// ClientKeyKey stores the client identity used for rate limiting.
	ClientKeyKey contextKey = "client_key"

	// RateLimitDecisionKey stores the rate limiter's decision for the request.
	RateLimitDecisionKey contextKey = "rate_limit_decision"
)
