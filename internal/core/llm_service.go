package core

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const chatModelName = openai.GPT3Dot5Turbo

// ErrNotConfigured is returned when no provider API key was supplied at
// startup. Callers are expected to check Configured first and surface a
// friendly notice instead of this error.
var ErrNotConfigured = errors.New("completion provider API key not configured")

// Completer is the completion provider seen by the chat pipeline. It exists so
// tests can substitute a double for the real OpenAI client.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, messages []PromptMessage) (string, error)
}

type LLMService struct {
	client *openai.Client
}

// NewLLMService wraps the OpenAI chat completions API. An empty apiKey yields
// an unconfigured service rather than an error, so the rest of the app can
// start without a credential.
func NewLLMService(apiKey string) *LLMService {
	s := &LLMService{}
	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

func (s *LLMService) Configured() bool {
	return s.client != nil
}

// Complete sends the assembled context to the provider and returns the text of
// the first completion choice. A single best-effort call: no retries, no
// streaming.
func (s *LLMService) Complete(ctx context.Context, messages []PromptMessage) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	request := openai.ChatCompletionRequest{Model: chatModelName}
	for _, msg := range messages {
		request.Messages = append(request.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := s.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no completion choices")
	}

	return resp.Choices[0].Message.Content, nil
}
