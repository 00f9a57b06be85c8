// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI calls a chat completions endpoint: the OpenAI API or any
// compatible server selected by base URL.
type OpenAI struct {
	client    openai.Client
	model     string
	maxTokens int
}

// NewOpenAI builds a chat completions backend. baseURL and httpClient are
// optional; extra options are applied last. SDK retries are disabled; wrap
// the result with Retrying.
func NewOpenAI(apiKey, baseURL, model string, maxTokens int, httpClient *http.Client, extra ...option.RequestOption) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	opts = append(opts, extra...)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &OpenAI{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Invoke sends prompt as a single user message.
func (o *OpenAI) Invoke(ctx context.Context, prompt string) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(o.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("calling chat completions: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completions returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
