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

// GeminiBackend handles Google Gemini API requests
type GeminiBackend struct {
	apiKey     string
	httpClient *http.Client
}

// geminiRequest represents a request to Gemini's API
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// geminiContent represents content in Gemini format
type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

// geminiPart represents a part of the content
type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse represents a response from Gemini API
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// geminiCandidate represents a candidate response
type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// NewGeminiBackend creates a new Gemini backend
func NewGeminiBackend(apiKey string) *GeminiBackend {
	return &GeminiBackend{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Invoke sends prompt to the given model and returns the raw response text.
// Gemini has no dedicated system role, so the document instruction rides in
// front of the user prompt.
func (b *GeminiBackend) Invoke(ctx context.Context, prompt, model string) (string, error) {
	if b.apiKey == "" {
		return "", fmt.Errorf("gemini: API key not configured: %w", ErrUnavailable)
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		model, b.apiKey)

	reqBody, _ := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: documentPrompt + "\n\n" + prompt}}},
		},
	})

	httpReq, _ := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %v: %w", err, ErrRequestFailed)
	}
	defer httpResp.Body.Close()

	respBody, _ := io.ReadAll(httpResp.Body)

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error (status %d): %s: %w", httpResp.StatusCode, string(respBody), ErrRequestFailed)
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %v: %w", err, ErrRequestFailed)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("Gemini returned no candidates: %w", ErrRequestFailed)
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text, nil
}
