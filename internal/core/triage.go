package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"symptom-triage/internal/llm"
	"symptom-triage/internal/metrics"
	"symptom-triage/pkg"
)

type triageIDKey struct{}

// TriageService runs the triage pipeline: prompt, model call, validation and
// response shaping.  It holds no per-request state, so one instance serves
// all concurrent requests.
type TriageService struct {
	LLM    llm.Client
	Logger zerolog.Logger
	labels map[pkg.Zone]string
}

// NewTriageService constructs a TriageService.  labels is copied; a nil map
// means the built-in labels.
func NewTriageService(client llm.Client, logger zerolog.Logger, labels map[pkg.Zone]string) *TriageService {
	table := pkg.DefaultZoneLabels()
	for z, l := range labels {
		table[z] = l
	}
	return &TriageService{LLM: client, Logger: logger, labels: table}
}

// WithTriageID stores a caller-chosen triage id in ctx; Analyze uses it
// instead of generating one.
func WithTriageID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, triageIDKey{}, id)
}

// TriageIDFromContext returns the id stored by WithTriageID.
func TriageIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(triageIDKey{}).(string)
	return id
}

// Analyze classifies a complaint.  Model failures are returned wrapped as
// llm.ErrModelCallFailed; unusable replies as ErrMalformedModelOutput or
// ErrIncompleteModelOutput.  Out-of-vocabulary values never fail the call.
func (s *TriageService) Analyze(ctx context.Context, complaint string) (*pkg.TriageResponse, error) {
	triageID := TriageIDFromContext(ctx)
	if triageID == "" {
		triageID = uuid.NewString()
	}
	logger := s.Logger.With().Str("triage_id", triageID).Logger()

	logger.Info().Str("complaint", complaint).Msg("user complaint")

	raw, err := s.LLM.Generate(ctx, BuildPrompt(complaint))
	if err != nil {
		kind := failureKind(err)
		if kind == "canceled" {
			logger.Warn().Err(err).Str("provider", s.LLM.Provider()).Msg("model call canceled by caller")
		} else {
			logger.Error().Err(err).Str("provider", s.LLM.Provider()).Msg("model call failed")
		}
		metrics.RecordTriageFailure(kind)
		return nil, err
	}

	result, clamps, err := ParseTriageResult(raw)
	if err != nil {
		logger.Error().Err(err).Str("raw_reply", raw).Msg("model reply rejected")
		metrics.RecordTriageFailure(failureKind(err))
		return nil, err
	}
	if clamps.Any() {
		ev := logger.Warn().Str("disease", string(result.Disease)).Str("zone", string(result.Zone))
		if clamps.Disease {
			ev = ev.Str("model_disease", clamps.RawDisease)
			metrics.RecordClamp("disease")
		}
		if clamps.Zone {
			ev = ev.Str("model_zone", clamps.RawZone)
			metrics.RecordClamp("zone")
		}
		ev.Msg("model reply clamped to catalog")
	}

	logger.Info().Str("zone", string(result.Zone)).Msg("ai response zone")
	logger.Info().Str("symptoms_line", result.SymptomsLine).Msg("symptoms line")
	metrics.RecordTriageResult(string(result.Zone))

	return pkg.NewTriageResponse(result, s.labels), nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, llm.ErrModelCallFailed):
		return "model_call_failed"
	case errors.Is(err, ErrMalformedModelOutput):
		return "malformed_model_output"
	case errors.Is(err, ErrIncompleteModelOutput):
		return "incomplete_model_output"
	default:
		return "internal"
	}
}
