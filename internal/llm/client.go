package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Provider selects which text-generation backend a client talks to.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Valid reports whether the selector names a known provider.
func (p Provider) Valid() bool {
	return p == ProviderAnthropic || p == ProviderOpenAI
}

// Request carries one generation call's inputs.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Client generates text from a remote model provider. Implementations are
// stateless aside from credentials and endpoint configuration.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// TimeoutError indicates the remote call exceeded the configured timeout.
type TimeoutError struct {
	Provider Provider
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s call timed out - request took too long", e.Provider)
}

// TransportError indicates a network-level failure before any provider
// response was received.
type TransportError struct {
	Provider Provider
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error reaching %s: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProviderError indicates the remote service returned a non-success status.
// Message is taken from the provider's structured error body when present.
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// ProtocolError indicates a success response that did not contain the
// expected text field.
type ProtocolError struct {
	Provider Provider
	Missing  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected %s response format: missing %s", e.Provider, e.Missing)
}

// New builds a client for the selected provider.
func New(provider Provider, cfg ClientConfig) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// classifyTransport converts an http.Client error into the typed taxonomy.
func classifyTransport(provider Provider, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Provider: provider}
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &TimeoutError{Provider: provider}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TimeoutError{Provider: provider}
	}
	return &TransportError{Provider: provider, Err: err}
}
