// Package upstream implements the forwarding half of the proxy: a
// single-attempt HTTP client for the chat-completions API that attaches
// the server-held bearer credential, applies request defaults, and maps
// every failure mode to a typed error the HTTP layer can translate.
package upstream
