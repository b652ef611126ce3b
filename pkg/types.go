package pkg

// ComplaintRequest is the body of POST /analyze.  The complaint is free text
// in whatever language the patient typed it.
type ComplaintRequest struct {
	Complaint string `json:"complaint"`
}

// TriageResult is the validated model output.  Disease and Zone are always
// members of their closed sets; the two lines are free text.
type TriageResult struct {
	Disease      Disease `json:"disease"`
	Zone         Zone    `json:"zone"`
	SymptomsLine string  `json:"symptoms_line"`
	ActionLine   string  `json:"action_line"`
}

// TriageResponse is the public shape returned to callers.
type TriageResponse struct {
	Zone                Zone    `json:"zone"`
	ZoneLabel           string  `json:"zone_label"`
	Disease             Disease `json:"disease"`
	PatientSymptomsLine string  `json:"patient_symptoms_line"`
	PatientActionLine   string  `json:"patient_action_line"`
}

// NewTriageResponse derives the public response from a validated result and
// a zone label table.
func NewTriageResponse(res TriageResult, labels map[Zone]string) *TriageResponse {
	return &TriageResponse{
		Zone:                res.Zone,
		ZoneLabel:           ZoneLabel(labels, res.Zone),
		Disease:             res.Disease,
		PatientSymptomsLine: res.SymptomsLine,
		PatientActionLine:   res.ActionLine,
	}
}
