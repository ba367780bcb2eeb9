package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// maxResponseBodySize caps how much of an upstream reply is read (4MB).
const maxResponseBodySize = 4 * 1024 * 1024

// Client forwards chat-completion requests to a single upstream API.
//
// The client makes exactly one attempt per request: a failed call is
// surfaced to the original caller immediately, never retried. The
// credential is resolved from the environment at request time and attached
// as a bearer token; it is never logged and never appears in any error.
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates an upstream client with connection pooling.
func NewClient(config Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// ChatCompletion forwards a validated request to the upstream
// chat-completions endpoint and returns the first completion's content.
//
// Error semantics:
//   - missing credential: *ConfigError
//   - transport failure (including timeout): *UnreachableError
//   - upstream non-2xx: *UpstreamError carrying the upstream status
//   - unintelligible success body: *ParseError
func (c *Client) ChatCompletion(ctx context.Context, req *Request) (*Result, error) {
	apiKey := os.Getenv(c.config.APIKeyEnv)
	if apiKey == "" {
		return nil, &ConfigError{EnvVar: c.config.APIKeyEnv}
	}

	body, err := json.Marshal(c.buildWireRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upstream request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", c.config.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		slog.WarnContext(ctx, "upstream call failed",
			"url", url,
			"latency_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, &UnreachableError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, &UnreachableError{Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBody, resp.StatusCode),
		}
	}

	var wire wireResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if len(wire.Choices) == 0 {
		return nil, &ParseError{Cause: fmt.Errorf("upstream reply contains no choices")}
	}

	slog.DebugContext(ctx, "upstream call succeeded",
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &Result{Content: wire.Choices[0].Message.Content}, nil
}

// buildWireRequest applies defaults to absent fields. Presence is decided
// by pointer nil-ness, so a client-supplied zero survives.
func (c *Client) buildWireRequest(req *Request) wireRequest {
	wire := wireRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   c.config.DefaultMaxTokens,
		Temperature: c.config.DefaultTemperature,
	}
	if wire.Model == "" {
		wire.Model = c.config.DefaultModel
	}
	if req.MaxTokens != nil {
		wire.MaxTokens = *req.MaxTokens
	}
	if req.Temperature != nil {
		wire.Temperature = *req.Temperature
	}
	return wire
}

// extractErrorMessage pulls a human-readable message out of an upstream
// error body. Upstream APIs disagree on the error envelope, so a few known
// shapes are tried before synthesizing a generic message.
func extractErrorMessage(body []byte, statusCode int) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if len(envelope.Error) > 0 {
			// {"error": {"message": "..."}}
			var detail struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(envelope.Error, &detail); err == nil && detail.Message != "" {
				return detail.Message
			}
			// {"error": "..."}
			var plain string
			if err := json.Unmarshal(envelope.Error, &plain); err == nil && plain != "" {
				return plain
			}
		}
		// {"message": "..."}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return fmt.Sprintf("Upstream error (status %d)", statusCode)
}
