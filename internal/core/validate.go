package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"symptom-triage/pkg"
)

// requiredKeys are checked in this order; the first missing one is reported.
var requiredKeys = [...]string{"disease", "zone", "symptoms_line", "action_line"}

// Clamps records which fields of a reply were replaced by their default.
type Clamps struct {
	Disease    bool
	Zone       bool
	RawDisease string
	RawZone    string
}

// Any reports whether at least one field was clamped.
func (c Clamps) Any() bool { return c.Disease || c.Zone }

// ParseTriageResult turns a raw model reply into a validated TriageResult.
//
// The reply is parsed as JSON; if that fails, markdown code fences are
// stripped and the parse is retried once.  All four keys must be present.
// A disease or zone outside the catalog is not an error: it is silently
// replaced by pkg.DefaultDisease or pkg.DefaultZone and reported in Clamps.
// The two text lines pass through unvalidated.
func ParseTriageResult(raw string) (pkg.TriageResult, Clamps, error) {
	var clamps Clamps

	fields, err := decodeObject(raw)
	if err != nil {
		return pkg.TriageResult{}, clamps, err
	}

	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			return pkg.TriageResult{}, clamps, &IncompleteOutputError{Key: key}
		}
	}

	rawDisease, _ := jsonString(fields["disease"])
	disease, ok := pkg.ParseDisease(rawDisease)
	if !ok {
		disease = pkg.DefaultDisease
		clamps.Disease = true
		clamps.RawDisease = rawText(fields["disease"])
	}

	rawZone, _ := jsonString(fields["zone"])
	zone, ok := pkg.ParseZone(rawZone)
	if !ok {
		zone = pkg.DefaultZone
		clamps.Zone = true
		clamps.RawZone = rawText(fields["zone"])
	}

	return pkg.TriageResult{
		Disease:      disease,
		Zone:         zone,
		SymptomsLine: rawText(fields["symptoms_line"]),
		ActionLine:   rawText(fields["action_line"]),
	}, clamps, nil
}

// decodeObject parses raw as a JSON object, retrying once without code fences.
func decodeObject(raw string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields)
	if err == nil && fields != nil {
		return fields, nil
	}

	fields = nil
	err = json.Unmarshal([]byte(stripCodeFences(raw)), &fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedModelOutput, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: reply is not a JSON object", ErrMalformedModelOutput)
	}
	return fields, nil
}

// stripCodeFences removes every ```json and ``` marker the model may have
// wrapped around its reply.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func jsonString(v json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// rawText renders a JSON value as text: strings verbatim, null as empty,
// anything else as its compact JSON encoding.
func rawText(v json.RawMessage) string {
	if s, ok := jsonString(v); ok {
		return s
	}
	trimmed := bytes.TrimSpace(v)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}
