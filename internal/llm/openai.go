package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	openAIBaseURL = "https://api.openai.com/v1/chat/completions"
	openAIModel   = "gpt-4o"
)

// OpenAIClient calls the OpenAI chat completions API.
type OpenAIClient struct {
	cfg ClientConfig
}

// NewOpenAIClient builds an OpenAI-backed client.
func NewOpenAIClient(cfg ClientConfig) (*OpenAIClient, error) {
	if err := cfg.fill(openAIBaseURL, openAIModel); err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return &OpenAIClient{cfg: cfg}, nil
}

type openAIRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends one prompt pair and returns the generated text.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	payload := openAIRequest{
		Model:       c.cfg.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []openAIMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal openai request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create openai request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return "", classifyTransport(ProviderOpenAI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Provider:   ProviderOpenAI,
			StatusCode: resp.StatusCode,
			Message:    extractProviderError(resp.Body),
		}
	}

	var decoded openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &ProtocolError{Provider: ProviderOpenAI, Missing: "choices"}
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", &ProtocolError{Provider: ProviderOpenAI, Missing: "choices[0].message.content"}
	}

	return decoded.Choices[0].Message.Content, nil
}

// extractProviderError pulls the message out of a provider's structured
// error body, falling back to a generic string. Both providers use the
// {"error":{"message":...}} shape.
func extractProviderError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil || len(data) == 0 {
		return "unknown error"
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return "unknown error"
}

var _ Client = (*OpenAIClient)(nil)
