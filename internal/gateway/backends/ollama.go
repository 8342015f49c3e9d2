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

// OllamaBackend handles requests to a local Ollama daemon. It needs no
// credential; an unreachable daemon simply surfaces as a request failure.
type OllamaBackend struct {
	baseURL    string
	httpClient *http.Client
}

// ollamaRequest represents a request to Ollama's generate API
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

// ollamaResponse represents a response from Ollama's generate API
type ollamaResponse struct {
	Response string `json:"response"`
}

// NewOllamaBackend creates a new Ollama backend
func NewOllamaBackend(baseURL string) *OllamaBackend {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaBackend{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Invoke sends prompt to the given model and returns the raw response text
func (b *OllamaBackend) Invoke(ctx context.Context, prompt, model string) (string, error) {
	reqBody, _ := json.Marshal(ollamaRequest{
		Model:  model,
		Prompt: prompt,
		System: documentPrompt,
		Stream: false,
	})

	httpReq, _ := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/api/generate", bytes.NewReader(reqBody))
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %v: %w", err, ErrRequestFailed)
	}
	defer httpResp.Body.Close()

	respBody, _ := io.ReadAll(httpResp.Body)

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Ollama API error (status %d): %s: %w", httpResp.StatusCode, string(respBody), ErrRequestFailed)
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to parse Ollama response: %v: %w", err, ErrRequestFailed)
	}

	return resp.Response, nil
}
