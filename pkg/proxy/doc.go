// Package proxy provides request parsing, response writing, and error
// mapping shared by the HTTP handlers.
//
// The inbound contract is deliberately small: a chat request is valid JSON
// with a messages array, and every reply is a JSON envelope, either
// {"content": ..., "remaining": ...} on success or {"error": ...} on failure.
// MapError is the single place where internal error types become HTTP
// statuses, so handlers never hand-pick status codes.
package proxy
