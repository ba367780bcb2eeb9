// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// This package implements middleware functions that handle common
// functionality across all HTTP requests including request ID generation,
// logging, CORS, panic recovery, and rate limiting.
//
// # Middleware Chain
//
// Middleware functions are chained in a specific order:
//
//	handler = Recovery(Logging(RequestID(CORS(RateLimit(handler)))))
//
// Order (innermost to outermost):
//  1. RateLimit: Enforce per-client request quota
//  2. CORS: Add Cross-Origin Resource Sharing headers, answer preflights
//  3. RequestID: Generate and propagate request ID
//  4. Logging: Log request/response details
//  5. Recovery: Recover from panics
//
// CORS sits outside the rate limiter so that every response, including 429s,
// carries CORS headers, and so that preflight OPTIONS requests never consume
// quota.
//
// # Request ID
//
// RequestIDMiddleware generates a unique ID for each request using UUID v4:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// The request ID is added to the context, included in response headers, and
// logged with all request/response logs.
//
// # Rate Limiting
//
// RateLimitMiddleware identifies the caller by the first hop of the
// X-Forwarded-For header and consults the limiter before the request reaches
// the chat handler. Denied requests receive:
//
//	HTTP/1.1 429 Too Many Requests
//	Retry-After: 1800
//
//	{"error": "Rate limited. Try again later.", "resetIn": 1800}
//
// # Context Values
//
// Middleware stores values in context for handler access:
//
//	requestID := middleware.GetRequestID(r.Context())
//	decision, ok := middleware.GetRateLimitDecision(r.Context())
//
// # Thread Safety
//
// All middleware functions are thread-safe and can be called concurrently
// from multiple goroutines.
package middleware
