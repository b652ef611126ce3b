package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"symptom-triage/internal/config"
	"symptom-triage/internal/metrics"
)

// ErrModelCallFailed is returned, wrapped around the underlying cause, for
// every transport, authentication, quota, timeout or upstream failure of a
// model call.
var ErrModelCallFailed = errors.New("model call failed")

// Client sends an assembled prompt to a generative-text model and returns the
// raw text reply.  Implementations are safe for concurrent use.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Provider() string
}

// New constructs the client for the configured provider.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.Model.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, &cfg.Gemini, cfg.Model.Timeout)
	case config.ProviderOpenAI:
		return NewOpenAIClient(&cfg.OpenAI, cfg.Model.Timeout)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}

// callFailed wraps cause as ErrModelCallFailed.  When the call context has
// expired its error is kept in the chain as well so callers can tell a
// timeout from other failures.
func callFailed(ctx context.Context, cause error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(cause, ctxErr) {
		return fmt.Errorf("%w: %w (%v)", ErrModelCallFailed, ctxErr, cause)
	}
	return fmt.Errorf("%w: %w", ErrModelCallFailed, cause)
}

// withTimeout bounds a model call.  A zero timeout leaves ctx untouched.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func observe(provider string, start time.Time, err error) {
	metrics.RecordModelCall(provider, err, time.Since(start))
}
