package types

// ChatResponse is the success envelope. The upstream payload is flattened to
// a single content string so callers never see the provider's wire format.
type ChatResponse struct {
	Content string `json:"content"`

	// Remaining is the caller's remaining quota in the current window.
	// Omitted when the rate limiter did not run for this request.
	Remaining *int `json:"remaining,omitempty"`
}

// ErrorResponse is the envelope for every non-success reply.
type ErrorResponse struct {
	Error string `json:"error"`

	// ResetIn is the number of seconds until the caller's rate limit window
	// resets. Only populated on 429 responses.
	ResetIn int `json:"resetIn,omitempty"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
