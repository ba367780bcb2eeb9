package types

import "encoding/json"

// ChatRequest is the inbound request payload.
//
// Messages stays raw until validation so that "absent", "present but not an
// array", and "valid array" are distinguishable; a decoded nil slice would
// conflate the first two. MaxTokens and Temperature are pointers for the
// same reason: absent fields get server defaults, explicit zeros do not.
type ChatRequest struct {
	// Model optionally overrides the server's default model.
	Model string `json:"model"`

	// Messages must be a JSON array of {role, content} objects.
	Messages json.RawMessage `json:"messages"`

	// MaxTokens optionally overrides the server's default max_tokens.
	MaxTokens *int `json:"max_tokens"`

	// Temperature optionally overrides the server's default temperature.
	Temperature *float64 `json:"temperature"`
}
