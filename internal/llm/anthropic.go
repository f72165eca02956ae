package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1/messages"
	anthropicModel   = "claude-sonnet-4-20250514"
	anthropicVersion = "2023-06-01"

	defaultCallTimeout = 90 * time.Second
)

// ClientConfig holds the credentials and tuning shared by both providers.
// If HTTPClient is nil a default client with Timeout is created.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func (cfg *ClientConfig) fill(baseURL, model string) error {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return fmt.Errorf("api key must not be empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURL
	}
	if cfg.Model == "" {
		cfg.Model = model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCallTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return nil
}

// AnthropicClient calls the Anthropic messages API.
type AnthropicClient struct {
	cfg ClientConfig
}

// NewAnthropicClient builds an Anthropic-backed client.
func NewAnthropicClient(cfg ClientConfig) (*AnthropicClient, error) {
	if err := cfg.fill(anthropicBaseURL, anthropicModel); err != nil {
		return nil, fmt.Errorf("anthropic client: %w", err)
	}
	return &AnthropicClient{cfg: cfg}, nil
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Generate sends one prompt pair and returns the generated text.
func (c *AnthropicClient) Generate(ctx context.Context, req Request) (string, error) {
	payload := anthropicRequest{
		Model:       c.cfg.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: req.User}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create anthropic request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return "", classifyTransport(ProviderAnthropic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Provider:   ProviderAnthropic,
			StatusCode: resp.StatusCode,
			Message:    extractProviderError(resp.Body),
		}
	}

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &ProtocolError{Provider: ProviderAnthropic, Missing: "content"}
	}
	if len(decoded.Content) == 0 || decoded.Content[0].Text == "" {
		return "", &ProtocolError{Provider: ProviderAnthropic, Missing: "content[0].text"}
	}

	return decoded.Content[0].Text, nil
}

var _ Client = (*AnthropicClient)(nil)
