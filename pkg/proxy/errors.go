package proxy

import (
	"errors"
	"net/http"

	"relay-hq/hermes/pkg/proxy/types"
	"relay-hq/hermes/pkg/upstream"
)

// MethodError reports a request that used an HTTP method the endpoint does
// not serve.
type MethodError struct {
	Method string
}

func (e *MethodError) Error() string {
	return "method not allowed: " + e.Method
}

// ValidationError reports a malformed or incomplete request body. Message is
// safe to return to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MapError translates an error from request handling or the upstream client
// into the HTTP status and error body to return to the caller. Transport and
// internal errors are never leaked; upstream API error messages pass through
// along with their status code.
func MapError(err error) (int, types.ErrorResponse) {
	var methodErr *MethodError
	if errors.As(err, &methodErr) {
		return http.StatusMethodNotAllowed, types.ErrorResponse{Error: "Method not allowed"}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, types.ErrorResponse{Error: validationErr.Message}
	}

	var configErr *upstream.ConfigError
	if errors.As(err, &configErr) {
		return http.StatusInternalServerError, types.ErrorResponse{Error: "Server misconfigured"}
	}

	var upstreamErr *upstream.UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.StatusCode, types.ErrorResponse{Error: upstreamErr.Message}
	}

	var unreachableErr *upstream.UnreachableError
	if errors.As(err, &unreachableErr) {
		return http.StatusBadGateway, types.ErrorResponse{Error: "Failed to reach AI service"}
	}

	var parseErr *upstream.ParseError
	if errors.As(err, &parseErr) {
		return http.StatusBadGateway, types.ErrorResponse{Error: "Invalid response from AI service"}
	}

	return http.StatusInternalServerError, types.ErrorResponse{Error: "Internal server error"}
}
