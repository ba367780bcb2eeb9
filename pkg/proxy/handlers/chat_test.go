package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"relay-hq/hermes/pkg/proxy/middleware"
	"relay-hq/hermes/pkg/proxy/types"
	"relay-hq/hermes/pkg/ratelimit"
	"relay-hq/hermes/pkg/upstream"
)

// fakeUpstream returns a canned result or error and records the forwarded
// request.
type fakeUpstream struct {
	result *upstream.Result
	err    error
	got    *upstream.Request
}

func (f *fakeUpstream) ChatCompletion(_ context.Context, req *upstream.Request) (*upstream.Result, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func postChat(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var body types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestChatHandler_Success(t *testing.T) {
	fake := &fakeUpstream{result: &upstream.Result{Content: "hello"}}
	handler := NewChatHandler(fake)

	rec := postChat(t, handler, `{"messages": [{"role": "user", "content": "hi"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %q", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body types.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Content != "hello" {
		t.Errorf("content = %q, want %q", body.Content, "hello")
	}
	if body.Remaining != nil {
		t.Errorf("remaining = %v, want omitted when no limiter decision present", *body.Remaining)
	}

	if len(fake.got.Messages) != 1 || fake.got.Messages[0].Role != "user" {
		t.Errorf("forwarded messages = %+v, want the client's single user message", fake.got.Messages)
	}
}

func TestChatHandler_ReportsRemainingQuota(t *testing.T) {
	fake := &fakeUpstream{result: &upstream.Result{Content: "hello"}}
	handler := NewChatHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(`{"messages": []}`))
	ctx := context.WithValue(req.Context(), middleware.RateLimitDecisionKey, ratelimit.Decision{Allowed: true, Remaining: 42})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req.WithContext(ctx))

	var body types.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Remaining == nil || *body.Remaining != 42 {
		t.Errorf("remaining = %v, want 42", body.Remaining)
	}
}

func TestChatHandler_MethodNotAllowed(t *testing.T) {
	handler := NewChatHandler(&fakeUpstream{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/v1/chat/completions", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
			}
			if body := decodeError(t, rec); body.Error != "Method not allowed" {
				t.Errorf("error = %q, want %q", body.Error, "Method not allowed")
			}
		})
	}
}

func TestChatHandler_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "not json", body: `{{{`, wantError: "Invalid JSON"},
		{name: "empty body", body: ``, wantError: "Invalid JSON"},
		{name: "missing messages", body: `{"model": "gpt-4o-mini"}`, wantError: "messages array required"},
		{name: "messages is a string", body: `{"messages": "hi"}`, wantError: "messages array required"},
		{name: "messages is an object", body: `{"messages": {"role": "user"}}`, wantError: "messages array required"},
		{name: "messages is null", body: `{"messages": null}`, wantError: "messages array required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewChatHandler(&fakeUpstream{result: &upstream.Result{Content: "hello"}})
			rec := postChat(t, handler, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if body := decodeError(t, rec); body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}

func TestChatHandler_EmptyMessagesArrayIsForwarded(t *testing.T) {
	fake := &fakeUpstream{result: &upstream.Result{Content: "hello"}}
	handler := NewChatHandler(fake)

	rec := postChat(t, handler, `{"messages": []}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if fake.got == nil {
		t.Fatal("request was not forwarded upstream")
	}
}

func TestChatHandler_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "credential missing",
			err:        &upstream.ConfigError{EnvVar: "OPENAI_API_KEY"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Server misconfigured",
		},
		{
			name:       "upstream status passes through",
			err:        &upstream.UpstreamError{StatusCode: http.StatusUnauthorized, Message: "Incorrect API key provided"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Incorrect API key provided",
		},
		{
			name:       "upstream overloaded passes through",
			err:        &upstream.UpstreamError{StatusCode: http.StatusServiceUnavailable, Message: "The engine is currently overloaded"},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "The engine is currently overloaded",
		},
		{
			name:       "transport failure is masked",
			err:        &upstream.UnreachableError{Cause: errors.New("dial tcp: connection refused")},
			wantStatus: http.StatusBadGateway,
			wantError:  "Failed to reach AI service",
		},
		{
			name:       "malformed upstream body is masked",
			err:        &upstream.ParseError{Cause: errors.New("unexpected end of JSON input")},
			wantStatus: http.StatusBadGateway,
			wantError:  "Invalid response from AI service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewChatHandler(&fakeUpstream{err: tt.err})
			rec := postChat(t, handler, `{"messages": [{"role": "user", "content": "hi"}]}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if body := decodeError(t, rec); body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}

func TestChatHandler_TransportErrorDetailNeverLeaks(t *testing.T) {
	secret := "dial tcp 10.0.0.5:443: i/o timeout"
	handler := NewChatHandler(&fakeUpstream{err: &upstream.UnreachableError{Cause: errors.New(secret)}})

	rec := postChat(t, handler, `{"messages": []}`)

	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Errorf("response body leaked transport details: %q", rec.Body.String())
	}
}

type recordingObserver struct {
	class   string
	called  int
	seconds float64
}

func (o *recordingObserver) ObserveUpstream(class string, seconds float64) {
	o.class = class
	o.called++
	o.seconds = seconds
}

func TestChatHandler_ObservesUpstreamOutcome(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantClass string
		wantCalls int
	}{
		{name: "success", err: nil, wantClass: "2xx", wantCalls: 1},
		{name: "upstream 429", err: &upstream.UpstreamError{StatusCode: 429, Message: "rate limited"}, wantClass: "4xx", wantCalls: 1},
		{name: "transport failure", err: &upstream.UnreachableError{Cause: errors.New("refused")}, wantClass: "error", wantCalls: 1},
		{name: "config error skips observation", err: &upstream.ConfigError{EnvVar: "OPENAI_API_KEY"}, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &recordingObserver{}
			handler := NewChatHandler(&fakeUpstream{result: &upstream.Result{Content: "hello"}, err: tt.err})
			handler.Observer = observer

			postChat(t, handler, `{"messages": []}`)

			if observer.called != tt.wantCalls {
				t.Fatalf("observer called %d times, want %d", observer.called, tt.wantCalls)
			}
			if tt.wantCalls > 0 && observer.class != tt.wantClass {
				t.Errorf("status class = %q, want %q", observer.class, tt.wantClass)
			}
		})
	}
}
