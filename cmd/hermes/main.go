// Hermes is an HTTP proxy that puts a usable front on an AI chat completion
// API: clients talk to one small endpoint without credentials while the
// proxy holds the API key, applies server-side defaults, and enforces a
// per-client rate limit.
//
// Usage:
//
//	# Start server with default configuration
//	hermes run
//
//	# Start with custom configuration file
//	hermes run --config /path/to/config.yaml
//
//	# Override listen address
//	hermes run --listen 0.0.0.0:8080
//
//	# Show version information
//	hermes version
package main

func main() {
	Execute()
}
