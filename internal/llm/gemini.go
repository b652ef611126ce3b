package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"symptom-triage/internal/config"
)

// GeminiClient calls the Gemini generateContent API.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient constructs a Gemini-backed client.  The underlying SDK
// client is created once and shared by all requests.
func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig, timeout time.Duration) (*GeminiClient, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiClient{client: client, model: model, timeout: timeout}, nil
}

// Provider implements Client.
func (c *GeminiClient) Provider() string { return config.ProviderGemini }

// Generate sends the prompt as a single user turn and returns the model's
// text output.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (text string, err error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() { observe(c.Provider(), start, err) }()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		// low temperature for consistent labels
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", callFailed(ctx, err)
	}

	text = strings.TrimSpace(resp.Text())
	if text == "" {
		return "", callFailed(ctx, errors.New("gemini response is empty"))
	}
	return text, nil
}
