package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-triage/internal/config"
)

func generateContentBody(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
	return string(body)
}

func newTestGeminiClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGeminiClient(context.Background(), &config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
	}, timeout)
	require.NoError(t, err)
	return client
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), &config.GeminiConfig{}, time.Second)
	assert.Error(t, err)
}

func TestGeminiClient_Generate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), &config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
	}, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderGemini, client.Provider())

	_, err = client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelCallFailed))
}

func TestNew_SelectsProvider(t *testing.T) {
	cfg := &config.Config{
		Model:  config.ModelConfig{Provider: config.ProviderOpenAI, Timeout: time.Second},
		OpenAI: config.OpenAIConfig{APIKey: "sk-test"},
	}

	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOpenAI, client.Provider())

	cfg.Model.Provider = "llama"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestGeminiClient_Generate_Success(t *testing.T) {
	var gotPrompt, gotMIME string
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
			GenerationConfig struct {
				ResponseMIMEType string `json:"responseMimeType"`
			} `json:"generationConfig"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Contents, 1) && assert.Len(t, req.Contents[0].Parts, 1) {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		gotMIME = req.GenerationConfig.ResponseMIMEType

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(generateContentBody("  {\"zone\":\"Red\"}\n")))
	}, time.Second)

	text, err := client.Generate(context.Background(), "the prompt")

	require.NoError(t, err)
	assert.Equal(t, `{"zone":"Red"}`, text)
	assert.Equal(t, "the prompt", gotPrompt)
	assert.Equal(t, "application/json", gotMIME)
}

func TestGeminiClient_Generate_EmptyReply(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}, time.Second)

	text, err := client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Empty(t, text)
	assert.True(t, errors.Is(err, ErrModelCallFailed))
}

func TestGeminiClient_Generate_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 100*time.Millisecond)
	defer close(release)

	_, err := client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelCallFailed))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGeminiClient_Generate_Canceled(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := client.Generate(ctx, "p")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelCallFailed))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, context.DeadlineExceeded))
}
