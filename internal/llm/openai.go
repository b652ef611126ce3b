package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"symptom-triage/internal/config"
)

// OpenAIClient calls the OpenAI chat completion API.  Any OpenAI-compatible
// endpoint can be used by setting a base URL.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient constructs an OpenAI-backed client.
func NewOpenAIClient(cfg *config.OpenAIConfig, timeout time.Duration) (*OpenAIClient, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	oaCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oaCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		// default to a modern small model; can be overridden via env
		model = "gpt-4o-mini"
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(oaCfg),
		model:   model,
		timeout: timeout,
	}, nil
}

// Provider implements Client.
func (c *OpenAIClient) Provider() string { return config.ProviderOpenAI }

// Generate sends the prompt as a single user message and returns the
// assistant's reply.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (text string, err error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() { observe(c.Provider(), start, err) }()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", callFailed(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return "", callFailed(ctx, errors.New("openai response has no choices"))
	}

	text = strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", callFailed(ctx, errors.New("openai response is empty"))
	}
	return text, nil
}
