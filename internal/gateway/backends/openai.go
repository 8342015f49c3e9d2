package backends

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend handles OpenAI API requests
type OpenAIBackend struct {
	client *openai.Client
}

// NewOpenAIBackend creates a new OpenAI backend. An empty API key leaves the
// backend permanently unavailable.
func NewOpenAIBackend(apiKey string) *OpenAIBackend {
	b := &OpenAIBackend{}
	if apiKey != "" {
		b.client = openai.NewClient(apiKey)
	}
	return b
}

// Invoke sends prompt to the given model and returns the raw response text
func (b *OpenAIBackend) Invoke(ctx context.Context, prompt, model string) (string, error) {
	if b.client == nil {
		return "", fmt.Errorf("openai: API key not configured: %w", ErrUnavailable)
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: documentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %v: %w", err, ErrRequestFailed)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices: %w", ErrRequestFailed)
	}

	return resp.Choices[0].Message.Content, nil
}
