package handlers

import (
	"net/http"

	"relay-hq/hermes/pkg/proxy"
	"relay-hq/hermes/pkg/proxy/types"
)

// HealthHandler handles health check requests for liveness probes.
type HealthHandler struct {
	Version string
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{Version: version}
}

// ServeHTTP implements http.Handler for liveness checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		proxy.WriteError(w, &proxy.MethodError{Method: r.Method})
		return
	}

	proxy.WriteJSON(w, http.StatusOK, types.HealthResponse{
		Status:  "ok",
		Version: h.Version,
	})
}
