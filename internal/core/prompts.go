package core

import (
	"fmt"
	"strings"

	"symptom-triage/pkg"
)

// prompts.go assembles the triage instruction sent to the model.  The
// disease and zone lists are rendered from the catalog in pkg so the model is
// always asked for exactly the labels the validator accepts.

const (
	// promptPreamble sets the assistant role and the patient-facing language.
	promptPreamble = `You are an AI symptom checker triage assistant.

The patient speaks Marathi. Respond in SIMPLE Marathi for all patient-facing text.

You must:
1) Read the patient's free-text complaint (in Marathi).
2) Choose exactly ONE disease from the following list (no other disease allowed):

`

	// outputContract describes the four keys and the JSON-only reply format.
	outputContract = `You MUST output:

- "disease": exactly one string from the above list.
- "zone": exactly one of: %s.
- "symptoms_line": ONE short Marathi sentence summarizing the main symptoms.
- "action_line": ONE or TWO short Marathi sentences telling the patient what to do now
  (ER / call 108 / go to hospital / home care + when to see doctor).

IMPORTANT:
%s
OUTPUT FORMAT:
Return ONLY valid JSON with keys:
  disease, zone, symptoms_line, action_line

No extra text, no explanation, no markdown, no backticks.
`

	complaintHeader = "PATIENT COMPLAINT (Marathi):"
)

var systemInstruction = renderSystemInstruction()

// SystemInstruction returns the fixed instruction block that precedes every
// complaint.
func SystemInstruction() string { return systemInstruction }

// BuildPrompt joins the system instruction with the complaint, which is
// passed through verbatim.
func BuildPrompt(complaint string) string {
	return systemInstruction + "\n\n" + complaintHeader + "\n" + complaint + "\n"
}

func renderSystemInstruction() string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	for i, d := range pkg.Diseases() {
		fmt.Fprintf(&b, "   %d. %s – %s\n", i+1, d.Name, d.Description)
	}

	b.WriteString("\n3) Decide the triage zone:\n")
	zones := pkg.Zones()
	names := make([]string, 0, len(zones))
	var rules strings.Builder
	for _, z := range zones {
		quoted := fmt.Sprintf("%q", z.Zone)
		names = append(names, quoted)
		fmt.Fprintf(&b, "   - %-8s = %s\n", quoted, z.Meaning)
		fmt.Fprintf(&rules, "- For %s zone, %s\n", z.Zone, z.Guidance)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, outputContract, strings.Join(names, ", "), rules.String())
	return b.String()
}
