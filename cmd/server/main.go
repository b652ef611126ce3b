package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"symptom-triage/internal/config"
	"symptom-triage/internal/core"
	httpserver "symptom-triage/internal/http"
	"symptom-triage/internal/llm"
	"symptom-triage/internal/logging"
)

func main() {
	// Load environment variables (and .env if present)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// run serves until ctx is done or the listener fails.  The log sink is
// closed before it returns.
func run(ctx context.Context, cfg *config.Config) error {
	logger, closer, err := logging.New(cfg.Log, cfg.Service, cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("failed to initialise logger: %w", err)
	}
	defer closer.Close()

	labels, err := cfg.ZoneLabels()
	if err != nil {
		logger.Error().Err(err).Msg("failed to load zone labels")
		return err
	}

	// One model client is shared by every request
	llmClient, err := llm.New(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to construct model client")
		return err
	}
	triage := core.NewTriageService(llmClient, logger, labels)

	srv := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: httpserver.NewServer(triage, logger, httpserver.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
			Provider:       llmClient.Provider(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("provider", llmClient.Provider()).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
			return err
		}
		return nil
	}
}
