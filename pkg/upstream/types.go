package upstream

import "time"

// Message is a single conversation turn, passed through to the upstream
// unmodified. Content is left loosely typed: clients may send plain strings
// or structured content arrays, and the proxy has no reason to care.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Request is a validated chat-completion request ready for forwarding.
// MaxTokens and Temperature are pointers so that "field absent" and
// "field present but zero" stay distinguishable: only absent fields get
// defaults, a client-supplied zero is forwarded as zero.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   *int
	Temperature *float64
}

// Result is the reshaped upstream reply: just the first completion's
// message content.
type Result struct {
	Content string
}

// Config contains the upstream client configuration.
type Config struct {
	// BaseURL is the upstream API base URL.
	BaseURL string

	// APIKeyEnv names the environment variable holding the credential.
	// The variable is read per request, so rotating the key does not
	// require a restart.
	APIKeyEnv string

	// Timeout bounds a single upstream call.
	Timeout time.Duration

	// DefaultModel is applied when the request omits a model.
	DefaultModel string

	// DefaultMaxTokens is applied when the request omits max_tokens.
	DefaultMaxTokens int

	// DefaultTemperature is applied when the request omits temperature.
	DefaultTemperature float64

	// Connection pool settings.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// wireRequest is the JSON body sent to the chat-completions endpoint.
// All fields are always present; defaults have been applied by the time
// this is marshaled.
type wireRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// wireResponse is the subset of the upstream reply the proxy consumes.
type wireResponse struct {
	Choices []wireChoice `json:"choices"`
}

type wireChoice struct {
	Message wireMessage `json:"message"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
