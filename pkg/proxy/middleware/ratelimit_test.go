package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"relay-hq/hermes/pkg/proxy/types"
	"relay-hq/hermes/pkg/ratelimit"
)

func TestClientKey(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		want      string
	}{
		{name: "single hop", forwarded: "203.0.113.7", want: "203.0.113.7"},
		{name: "first hop of chain", forwarded: "203.0.113.7, 10.0.0.1", want: "203.0.113.7"},
		{name: "whitespace trimmed", forwarded: "  203.0.113.7 , 10.0.0.1", want: "203.0.113.7"},
		{name: "missing header", forwarded: "", want: "unknown"},
		{name: "empty first hop", forwarded: " , 10.0.0.1", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientKey(req); got != tt.want {
				t.Errorf("ClientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(2, time.Hour, nil)

	var decision ratelimit.Decision
	var decisionFound bool
	handler := RateLimitMiddleware(limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, decisionFound = GetRateLimitDecision(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !decisionFound {
		t.Fatal("decision not stored in request context")
	}
	if decision.Remaining != 1 {
		t.Errorf("Remaining = %d, want 1", decision.Remaining)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "1" {
		t.Errorf("X-RateLimit-Remaining = %q, want %q", got, "1")
	}
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Errorf("X-RateLimit-Limit = %q, want %q", got, "2")
	}
}

func TestRateLimitMiddleware_DeniesOverLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Hour, nil)

	limitedCalls := 0
	handler := RateLimitMiddleware(limiter, func() { limitedCalls++ })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i == 0 {
			if rec.Code != http.StatusOK {
				t.Fatalf("first request status = %d, want %d", rec.Code, http.StatusOK)
			}
			continue
		}

		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("second request status = %d, want %d", rec.Code, http.StatusTooManyRequests)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Error("429 response missing Retry-After header")
		}

		var body types.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode 429 body: %v", err)
		}
		if body.Error != "Rate limited. Try again later." {
			t.Errorf("error = %q, want %q", body.Error, "Rate limited. Try again later.")
		}
		if body.ResetIn < 1 || body.ResetIn > 3600 {
			t.Errorf("resetIn = %d, want within (0, 3600]", body.ResetIn)
		}
	}

	if limitedCalls != 1 {
		t.Errorf("onLimited called %d times, want 1", limitedCalls)
	}
}

func TestRateLimitMiddleware_NonPostPassesThrough(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Hour, nil)
	handler := RateLimitMiddleware(limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))

	// GET requests must not consume quota.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/chat/completions", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusTooManyRequests {
		t.Error("GET requests consumed the rate limit quota")
	}
}

func TestRateLimitMiddleware_KeysAreIndependent(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Hour, nil)
	handler := RateLimitMiddleware(limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, ip := range []string{"203.0.113.7", "203.0.113.8"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("request from %s: status = %d, want %d", ip, rec.Code, http.StatusOK)
		}
	}
}
