// Package ai provides the writing helpers offered to authors. Every helper
// degrades to a local fallback; upstream failures never reach the caller.
package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const requestTimeout = 20 * time.Second

// Completer runs one chat completion.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int64) (string, error)
}

// OpenAICompleter calls the OpenAI chat completions API.
type OpenAICompleter struct {
	client openai.Client
	model  string
}

// NewOpenAICompleter returns a completer for apiKey, or nil when apiKey is empty.
func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAICompleter{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithRequestTimeout(requestTimeout),
			option.WithMaxRetries(0),
		),
		model: model,
	}
}

// Complete sends a system and user message and returns the first choice.
func (c *OpenAICompleter) Complete(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxCompletionTokens: openai.Int(maxTokens),
		Temperature:         openai.Float(0.7),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai: empty completion")
	}
	return content, nil
}
