package pkg

// Disease is one of the fixed diagnostic categories the model must choose
// from.  Anything else coming back from the model is clamped to
// DefaultDisease.
type Disease string

const (
	ViralFever            Disease = "Viral Fever (without warning signs)"
	Gastritis             Disease = "Gastritis / Acid Reflux"
	Migraine              Disease = "Migraine / Tension Headache"
	SkinInfection         Disease = "Skin Infection / Cellulitis (mild)"
	ModerateHypertension  Disease = "Moderate Hypertension (BP 140–160/90–100)"
	PregnancyComplication Disease = "Pregnancy Complications (Bleeding / Pain)"
	SevereDehydration     Disease = "Severe Dehydration"
	SnakeBite             Disease = "Snake Bite (Suspected)"
	Tuberculosis          Disease = "Tuberculosis (with cough >2 weeks)"
	Seizure               Disease = "Seizure / Fits"
	HeartAttack           Disease = "Heart Attack"
	Unconscious           Disease = "Unconscious / Coma"
	Stroke                Disease = "Stroke (CVA)"
	SevereHeadInjury      Disease = "Severe Head Injury"
	SevereTrauma          Disease = "Severe Trauma with Bleeding / Fracture"

	// DefaultDisease replaces any diagnosis outside the catalog.
	DefaultDisease = ViralFever
)

// Zone is the triage urgency tier.  Severity order is Red > Orange > Yellow.
type Zone string

const (
	ZoneRed    Zone = "Red"
	ZoneOrange Zone = "Orange"
	ZoneYellow Zone = "Yellow"

	// DefaultZone is the least alarming tier; out-of-vocabulary zones are
	// clamped to it so a bad reply never escalates urgency.
	DefaultZone = ZoneYellow
)

// DiseaseInfo pairs a catalog label with the one-line description the model
// sees in the prompt.
type DiseaseInfo struct {
	Name        Disease
	Description string
}

// ZoneInfo pairs a zone with its decision rule and patient guidance.
type ZoneInfo struct {
	Zone     Zone
	Meaning  string
	Guidance string
}

var diseaseCatalog = [...]DiseaseInfo{
	{ViralFever, "viral fever with mild to moderate symptoms, no danger signs."},
	{Gastritis, "burning in chest or upper abdomen, acidity, related to food."},
	{Migraine, "repeated or severe headache, sometimes with vomiting or light sensitivity."},
	{SkinInfection, "local redness, swelling, pain, mild fever."},
	{ModerateHypertension, "raised blood pressure with mild symptoms like headache, giddiness."},
	{PregnancyComplication, "pregnant woman with vaginal bleeding or abdominal pain."},
	{SevereDehydration, "very weak, dry mouth, very little urine, dizziness, especially with diarrhea or vomiting."},
	{SnakeBite, "history of snake bite or strong suspicion, with or without swelling."},
	{Tuberculosis, "cough more than 2 weeks, weight loss, night sweats."},
	{Seizure, "episode of convulsions, loss of control, tongue bite, post-ictal confusion."},
	{HeartAttack, "myocardial infarction: severe chest pain, chest heaviness, breathlessness, sweating, radiating pain."},
	{Unconscious, "not responding, very drowsy, not following commands."},
	{Stroke, "sudden weakness of one side, facial droop, slurred speech, difficulty walking."},
	{SevereHeadInjury, "head trauma with loss of consciousness, vomiting, confusion, bleeding."},
	{SevereTrauma, "major accident, heavy bleeding, suspected fracture, limb deformity."},
}

var zoneCatalog = [...]ZoneInfo{
	{ZoneRed, "Emergency / life threatening → needs immediate ER / 108 call.",
		"clearly tell the patient to go to emergency / call 108."},
	{ZoneOrange, "Urgent (high risk but not immediate death) → needs doctor same day / within few hours.",
		"clearly tell to see a doctor or hospital as soon as possible."},
	{ZoneYellow, "Mild / stable → can manage at home + OPD visit if needed.",
		"focus on home care + OPD visit if not improving."},
}

var defaultZoneLabels = map[Zone]string{
	ZoneRed:    "Zone: 🔴 Red – उच्च धोक्याची पातळी",
	ZoneOrange: "Zone: 🟠 Orange – मध्यम धोक्याची पातळी",
	ZoneYellow: "Zone: 🟡 Yellow – कमी धोक्याची पातळी",
}

// Diseases returns the catalog in prompt order.
func Diseases() []DiseaseInfo {
	out := make([]DiseaseInfo, len(diseaseCatalog))
	copy(out, diseaseCatalog[:])
	return out
}

// Zones returns the zones ordered by severity, most severe first.
func Zones() []ZoneInfo {
	out := make([]ZoneInfo, len(zoneCatalog))
	copy(out, zoneCatalog[:])
	return out
}

// ParseDisease reports whether s is exactly one of the catalog labels.
func ParseDisease(s string) (Disease, bool) {
	for _, d := range diseaseCatalog {
		if string(d.Name) == s {
			return d.Name, true
		}
	}
	return "", false
}

// ParseZone reports whether s is exactly one of Red, Orange or Yellow.
func ParseZone(s string) (Zone, bool) {
	for _, z := range zoneCatalog {
		if string(z.Zone) == s {
			return z.Zone, true
		}
	}
	return "", false
}

// DefaultZoneLabels returns a fresh copy of the built-in Marathi labels.
func DefaultZoneLabels() map[Zone]string {
	out := make(map[Zone]string, len(defaultZoneLabels))
	for z, l := range defaultZoneLabels {
		out[z] = l
	}
	return out
}

// ZoneLabel looks up the display label for zone, falling back to
// "Zone: {zone}" when the table has no entry.
func ZoneLabel(labels map[Zone]string, zone Zone) string {
	if l, ok := labels[zone]; ok && l != "" {
		return l
	}
	return "Zone: " + string(zone)
}
