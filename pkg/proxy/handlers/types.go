package handlers

import (
	"context"

	"relay-hq/hermes/pkg/upstream"
)

// UpstreamClient is the interface for forwarding chat requests to the AI
// service. *upstream.Client satisfies it; tests substitute fakes.
type UpstreamClient interface {
	ChatCompletion(ctx context.Context, req *upstream.Request) (*upstream.Result, error)
}

// UpstreamObserver receives the outcome of each upstream call for metrics.
type UpstreamObserver interface {
	ObserveUpstream(statusClass string, seconds float64)
}
