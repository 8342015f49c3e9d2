package backends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AnthropicBackend handles Anthropic Claude API requests
type AnthropicBackend struct {
	apiKey     string
	httpClient *http.Client
}

// anthropicRequest represents a request to Anthropic's Messages API
type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
}

// anthropicMessage represents a message in Anthropic format
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse represents a response from Anthropic's API
type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

// anthropicContentBlock represents a content block
type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewAnthropicBackend creates a new Anthropic backend
func NewAnthropicBackend(apiKey string) *AnthropicBackend {
	return &AnthropicBackend{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Invoke sends prompt to the given model and returns the raw response text
func (b *AnthropicBackend) Invoke(ctx context.Context, prompt, model string) (string, error) {
	if b.apiKey == "" {
		return "", fmt.Errorf("anthropic: API key not configured: %w", ErrUnavailable)
	}

	reqBody, _ := json.Marshal(anthropicRequest{
		Model:     model,
		MaxTokens: 8192,
		System:    documentPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	})

	httpReq, _ := http.NewRequestWithContext(ctx, "POST", "https://api.anthropic.com/v1/messages", bytes.NewReader(reqBody))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", b.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	httpResp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %v: %w", err, ErrRequestFailed)
	}
	defer httpResp.Body.Close()

	respBody, _ := io.ReadAll(httpResp.Body)

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Anthropic API error (status %d): %s: %w", httpResp.StatusCode, string(respBody), ErrRequestFailed)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to parse Anthropic response: %v: %w", err, ErrRequestFailed)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}
