// Package handlers provides HTTP handlers for the proxy endpoints.
//
// ChatHandler serves POST /v1/chat/completions: it validates the request
// body, forwards it upstream with server-side credentials and defaults, and
// flattens the reply to {"content": ..., "remaining": ...}. HealthHandler
// serves GET /health for liveness probes.
//
// Handlers depend on the narrow UpstreamClient interface rather than the
// concrete upstream client so tests can substitute fakes.
package handlers
