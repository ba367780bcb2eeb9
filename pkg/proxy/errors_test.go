package proxy

import (
	"errors"
	"net/http"
	"testing"

	"relay-hq/hermes/pkg/upstream"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "method not allowed",
			err:        &MethodError{Method: http.MethodGet},
			wantStatus: http.StatusMethodNotAllowed,
			wantError:  "Method not allowed",
		},
		{
			name:       "validation message passes through",
			err:        &ValidationError{Message: "messages array required"},
			wantStatus: http.StatusBadRequest,
			wantError:  "messages array required",
		},
		{
			name:       "missing credential",
			err:        &upstream.ConfigError{EnvVar: "OPENAI_API_KEY"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Server misconfigured",
		},
		{
			name:       "upstream status and message pass through",
			err:        &upstream.UpstreamError{StatusCode: http.StatusTooManyRequests, Message: "You exceeded your current quota"},
			wantStatus: http.StatusTooManyRequests,
			wantError:  "You exceeded your current quota",
		},
		{
			name:       "unreachable upstream",
			err:        &upstream.UnreachableError{Cause: errors.New("connection refused")},
			wantStatus: http.StatusBadGateway,
			wantError:  "Failed to reach AI service",
		},
		{
			name:       "unparseable upstream reply",
			err:        &upstream.ParseError{Cause: errors.New("invalid character")},
			wantStatus: http.StatusBadGateway,
			wantError:  "Invalid response from AI service",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := MapError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}
