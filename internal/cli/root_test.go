package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-triage/internal/config"
	"symptom-triage/internal/core"
	"symptom-triage/internal/llm"
	"symptom-triage/pkg"
)

type stubLLM struct {
	reply  string
	err    error
	prompt string
}

func (s *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func (s *stubLLM) Provider() string { return "stub" }

func run(t *testing.T, opts Options, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func withClient(client llm.Client) Options {
	return Options{NewClient: func(ctx context.Context, cfg *config.Config) (llm.Client, error) {
		return client, nil
	}}
}

func setKey(t *testing.T) {
	t.Setenv("MODEL_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ZONE_LABELS_FILE", "")
	t.Setenv("MODEL_TIMEOUT", "")
}

func TestDiseases_ListsCatalogAndZones(t *testing.T) {
	out, err := run(t, Options{}, "", "diseases")

	require.NoError(t, err)
	for _, d := range pkg.Diseases() {
		assert.Contains(t, out, string(d.Name))
	}
	assert.Contains(t, out, "Zone: 🔴 Red – उच्च धोक्याची पातळी")
	assert.Contains(t, out, "Zone: 🟡 Yellow – कमी धोक्याची पातळी")
}

func TestDiseases_LabelsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Red: \"Zone: Red – high risk\"\n"), 0o600))

	out, err := run(t, Options{}, "", "diseases", "--labels", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Zone: Red – high risk")
	assert.Contains(t, out, "Zone: 🟠 Orange")
}

func TestPrompt_FromArgsAndStdin(t *testing.T) {
	out, err := run(t, Options{}, "", "prompt", "छातीत", "दुखत")
	require.NoError(t, err)
	assert.Equal(t, core.BuildPrompt("छातीत दुखत"), out)

	out, err = run(t, Options{}, "ताप आहे\n", "prompt")
	require.NoError(t, err)
	assert.Equal(t, core.BuildPrompt("ताप आहे"), out)
}

func TestAnalyze_PrintsResponse(t *testing.T) {
	setKey(t)
	client := &stubLLM{reply: `{"disease":"Stroke (CVA)","zone":"Red","symptoms_line":"S","action_line":"A"}`}

	out, err := run(t, withClient(client), "", "analyze", "चेहरा वाकडा झाला")

	require.NoError(t, err)
	assert.Equal(t, core.BuildPrompt("चेहरा वाकडा झाला"), client.prompt)
	var resp pkg.TriageResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, pkg.Stroke, resp.Disease)
	assert.Equal(t, pkg.ZoneRed, resp.Zone)
	assert.Equal(t, "S", resp.PatientSymptomsLine)
	assert.Equal(t, "A", resp.PatientActionLine)
}

func TestAnalyze_RequiresAPIKey(t *testing.T) {
	t.Setenv("MODEL_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := run(t, withClient(&stubLLM{}), "", "analyze", "c")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Equal(t, 1, ExitCode(err))
}

func TestAnalyze_FailureExitCodes(t *testing.T) {
	setKey(t)

	_, err := run(t, withClient(&stubLLM{err: fmt.Errorf("%w: %w", llm.ErrModelCallFailed, errors.New("503"))}), "", "analyze", "c")
	assert.Equal(t, 3, ExitCode(err))

	_, err = run(t, withClient(&stubLLM{reply: "not json"}), "", "analyze", "c")
	assert.Equal(t, 4, ExitCode(err))

	_, err = run(t, withClient(&stubLLM{reply: `{"disease":"Stroke (CVA)"}`}), "", "analyze", "c")
	assert.Equal(t, 4, ExitCode(err))
}

func TestExitCode_Nil(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
}
