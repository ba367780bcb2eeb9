package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"relay-hq/hermes/pkg/proxy"
	"relay-hq/hermes/pkg/proxy/middleware"
	"relay-hq/hermes/pkg/proxy/types"
	"relay-hq/hermes/pkg/upstream"
)

// ChatHandler handles chat completion requests. It validates the inbound
// payload, forwards it through the upstream client, and returns the reply
// content together with the caller's remaining quota.
type ChatHandler struct {
	Upstream UpstreamClient

	// Observer, if non-nil, receives the outcome of each upstream call.
	Observer UpstreamObserver
}

// NewChatHandler creates a new chat completion handler.
func NewChatHandler(client UpstreamClient) *ChatHandler {
	return &ChatHandler{Upstream: client}
}

// ServeHTTP implements http.Handler for chat completions.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		proxy.WriteError(w, &proxy.MethodError{Method: r.Method})
		return
	}

	req, err := proxy.ParseChatRequest(r)
	if err != nil {
		proxy.WriteError(w, err)
		return
	}

	ctx := r.Context()
	start := time.Now()
	result, err := h.Upstream.ChatCompletion(ctx, req)
	h.observe(err, time.Since(start))

	if err != nil {
		slog.WarnContext(ctx, "chat completion failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
			"client_key", middleware.GetClientKey(ctx),
		)
		proxy.WriteError(w, err)
		return
	}

	response := types.ChatResponse{Content: result.Content}
	if decision, ok := middleware.GetRateLimitDecision(ctx); ok {
		remaining := decision.Remaining
		response.Remaining = &remaining
	}

	proxy.WriteJSON(w, http.StatusOK, response)
}

// observe reports the upstream call outcome to the metrics observer, bucketed
// by status class ("2xx", "4xx", "5xx", or "error" for transport failures).
func (h *ChatHandler) observe(err error, latency time.Duration) {
	if h.Observer == nil {
		return
	}

	class := "2xx"
	if err != nil {
		var configErr *upstream.ConfigError
		if errors.As(err, &configErr) {
			// No upstream request was made.
			return
		}

		var upstreamErr *upstream.UpstreamError
		if errors.As(err, &upstreamErr) {
			class = fmt.Sprintf("%dxx", upstreamErr.StatusCode/100)
		} else {
			class = "error"
		}
	}

	h.Observer.ObserveUpstream(class, latency.Seconds())
}
