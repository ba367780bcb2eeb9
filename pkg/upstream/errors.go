package upstream

import "fmt"

// ConfigError indicates the upstream credential is not configured in the
// process environment. This is a server-side misconfiguration, never a
// client error.
type ConfigError struct {
	// EnvVar is the environment variable that was expected to hold the key.
	EnvVar string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("upstream credential not configured (environment variable %q is empty)", e.EnvVar)
}

// UpstreamError indicates the upstream returned a non-success status.
// The status code is passed through to the original caller.
type UpstreamError struct {
	// StatusCode is the HTTP status returned by the upstream.
	StatusCode int

	// Message is extracted from the upstream error body when parseable,
	// otherwise synthesized.
	Message string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Message)
}

// UnreachableError indicates the upstream call could not be completed at
// the transport level (dial failure, TLS failure, timeout). The underlying
// cause is kept for logs only; callers surface a fixed gateway error and
// never leak the transport detail.
type UnreachableError struct {
	Cause error
}

// Error implements the error interface.
func (e *UnreachableError) Error() string {
	return fmt.Sprintf("upstream unreachable: %v", e.Cause)
}

// Unwrap returns the underlying transport error.
func (e *UnreachableError) Unwrap() error {
	return e.Cause
}

// ParseError indicates the upstream returned a success status with a body
// the proxy could not interpret as a chat completion.
type ParseError struct {
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("upstream response parse error: %v", e.Cause)
}

// Unwrap returns the underlying parse error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
