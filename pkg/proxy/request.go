package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"relay-hq/hermes/pkg/proxy/types"
	"relay-hq/hermes/pkg/upstream"
)

// MaxRequestBodySize caps inbound request bodies at 1 MiB. Chat requests are
// small; anything larger is rejected before it reaches the JSON decoder.
const MaxRequestBodySize = 1 << 20

// ParseChatRequest reads and validates the request body, returning the
// upstream request to forward. A body that is not valid JSON, or whose
// messages field is missing or not an array, yields a ValidationError.
func ParseChatRequest(r *http.Request) (*upstream.Request, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		return nil, &ValidationError{Message: "Invalid JSON"}
	}
	if len(body) > MaxRequestBodySize {
		return nil, &ValidationError{Message: "Request body too large"}
	}

	var req types.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ValidationError{Message: "Invalid JSON"}
	}

	messages, err := decodeMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	return &upstream.Request{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}, nil
}

// decodeMessages requires messages to be present and a JSON array. An empty
// array is accepted; a string, object, number, or null is not.
func decodeMessages(raw json.RawMessage) ([]upstream.Message, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ValidationError{Message: "messages array required"}
	}

	var messages []upstream.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, &ValidationError{Message: "messages array required"}
	}
	return messages, nil
}
