package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"symptom-triage/pkg"
)

func TestBuildPrompt_ListsEveryCatalogLabel(t *testing.T) {
	prompt := BuildPrompt("छातीत दुखत आहे")

	for i, d := range pkg.Diseases() {
		assert.Contains(t, prompt, d.Name, "disease %d missing", i+1)
	}
	for _, z := range pkg.Zones() {
		assert.Contains(t, prompt, `"`+string(z.Zone)+`"`)
		assert.Contains(t, prompt, z.Meaning)
	}
	assert.Contains(t, prompt, `"zone": exactly one of: "Red", "Orange", "Yellow".`)
	assert.Contains(t, prompt, "disease, zone, symptoms_line, action_line")
}

func TestBuildPrompt_AppendsComplaintVerbatim(t *testing.T) {
	complaint := "  ताप आहे\nआणि खोकला  "

	prompt := BuildPrompt(complaint)

	assert.True(t, strings.HasPrefix(prompt, SystemInstruction()))
	assert.True(t, strings.HasSuffix(prompt, "PATIENT COMPLAINT (Marathi):\n"+complaint+"\n"))
}

func TestBuildPrompt_IsDeterministic(t *testing.T) {
	assert.Equal(t, BuildPrompt("x"), BuildPrompt("x"))
	assert.NotEqual(t, BuildPrompt("x"), BuildPrompt("y"))
}

func TestSystemInstruction_NumbersDiseasesInOrder(t *testing.T) {
	instr := SystemInstruction()

	assert.Contains(t, instr, "   1. Viral Fever (without warning signs) – ")
	assert.Contains(t, instr, "   11. Heart Attack – ")
	assert.Contains(t, instr, "   15. Severe Trauma with Bleeding / Fracture – ")
}
