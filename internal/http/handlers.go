package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"symptom-triage/internal/core"
	"symptom-triage/internal/llm"
)

const (
	triageIDHeader = "X-Triage-ID"

	// maxRequestBodyBytes bounds the /analyze body and therefore the prompt.
	maxRequestBodyBytes = 64 << 10
)

type analyzeRequest struct {
	Complaint *string `json:"complaint"`
}

// handleAnalyze handles POST /analyze: it classifies the complaint and
// returns the zone, its label, the disease and the two patient lines.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request body is too large", "REQUEST_TOO_LARGE"))
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("invalid request body: "+err.Error(), "INVALID_REQUEST"))
		return
	}
	if req.Complaint == nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("complaint is required", "INVALID_REQUEST"))
		return
	}

	triageID := uuid.NewString()
	w.Header().Set(triageIDHeader, triageID)

	resp, err := s.Triage.Analyze(core.WithTriageID(r.Context(), triageID), *req.Complaint)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports liveness and the configured model provider.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": s.Provider,
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorBody(message, code string) map[string]string {
	return map[string]string{"error": message, "code": code}
}

// writeError maps pipeline errors to HTTP statuses: upstream model problems
// are 502 (504 on timeout), everything else is 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, llm.ErrModelCallFailed) && errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorBody("model call timed out", "MODEL_TIMEOUT"))
	case errors.Is(err, llm.ErrModelCallFailed):
		writeJSON(w, http.StatusBadGateway, errorBody("model call failed", "MODEL_CALL_FAILED"))
	case errors.Is(err, core.ErrMalformedModelOutput):
		writeJSON(w, http.StatusBadGateway, errorBody("model output is not valid JSON", "MALFORMED_MODEL_OUTPUT"))
	case errors.Is(err, core.ErrIncompleteModelOutput):
		var incomplete *core.IncompleteOutputError
		msg := "model output is incomplete"
		if errors.As(err, &incomplete) {
			msg = "model output is missing key: " + incomplete.Key
		}
		writeJSON(w, http.StatusBadGateway, errorBody(msg, "INCOMPLETE_MODEL_OUTPUT"))
	default:
		s.Logger.Error().Err(err).Msg("unhandled triage error")
		writeJSON(w, http.StatusInternalServerError, errorBody("internal server error", "INTERNAL_ERROR"))
	}
}
