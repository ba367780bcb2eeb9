package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"relay-hq/hermes/pkg/proxy/types"
	"relay-hq/hermes/pkg/ratelimit"
)

// RateLimiter is the interface the rate limit middleware needs from a
// limiter. *ratelimit.Limiter satisfies it.
type RateLimiter interface {
	Check(key string) ratelimit.Decision
	Limit() int
}

// RateLimitMiddleware enforces a per-client request quota before the request
// reaches the chat handler. The client identity is the first hop of the
// X-Forwarded-For header; requests without one share a single "unknown"
// bucket.
//
// Denied requests receive 429 with Retry-After and a resetIn field in the
// body. Allowed requests carry the limiter's decision in the request context
// so the handler can report remaining quota, and every counted response
// carries X-RateLimit-Limit and X-RateLimit-Remaining headers.
//
// Only POST requests consume quota. Other methods pass through so that a 405
// does not burn the caller's budget, and preflight OPTIONS requests are
// already answered by the CORS middleware.
//
// onLimited, if non-nil, is invoked once per denied request.
//
// Example usage:
//
//	handler = RateLimitMiddleware(limiter, metrics.RecordRateLimited)(handler)
func RateLimitMiddleware(limiter RateLimiter, onLimited func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			key := ClientKey(r)
			decision := limiter.Check(key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				if onLimited != nil {
					onLimited()
				}

				slog.WarnContext(r.Context(), "rate limit exceeded",
					"client_key", key,
					"reset_in_seconds", decision.ResetIn,
					"request_id", GetRequestID(r.Context()),
				)

				w.Header().Set("Retry-After", strconv.Itoa(decision.ResetIn))
				w.Header().Set("X-RateLimit-Reset", strconv.Itoa(decision.ResetIn))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(types.ErrorResponse{
					Error:   "Rate limited. Try again later.",
					ResetIn: decision.ResetIn,
				})
				return
			}

			ctx := context.WithValue(r.Context(), ClientKeyKey, key)
			ctx = context.WithValue(ctx, RateLimitDecisionKey, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientKey derives the rate limiting identity for a request: the first hop
// of the X-Forwarded-For header, whitespace trimmed. Requests that carry no
// usable identity map to "unknown".
func ClientKey(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if key := strings.TrimSpace(first); key != "" {
			return key
		}
	}
	return "unknown"
}

// GetRateLimitDecision extracts the limiter's decision from the context.
// The second return value reports whether the limiter ran for this request.
func GetRateLimitDecision(ctx context.Context) (ratelimit.Decision, bool) {
	decision, ok := ctx.Value(RateLimitDecisionKey).(ratelimit.Decision)
	return decision, ok
}

// GetClientKey extracts the rate limiting identity from the context.
// Returns empty string if not found.
func GetClientKey(ctx context.Context) string {
	if key, ok := ctx.Value(ClientKeyKey).(string); ok {
		return key
	}
	return ""
}
