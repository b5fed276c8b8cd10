package knowledge

// Category tags the kind of record a match points at.
type Category string

const (
	CategoryLaw              Category = "law"
	CategoryEmergency        Category = "emergency"
	CategoryThreat           Category = "threat"
	CategoryPractice         Category = "practice"
	CategoryVector           Category = "vector"
	CategoryIncidentResponse Category = "incidentResponse"
	CategoryTips             Category = "tips"
	CategoryReporting        Category = "reporting"
)

// Record is implemented by every knowledge-base record type and by the
// synthesized tips and reporting digests. The set is closed.
type Record interface {
	Category() Category
	Title() string
	sealed()
}

// Severity rates how damaging a threat is.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityModerate Severity = "Moderate"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// LawEntry is a cyber-law provision.
type LawEntry struct {
	Section     string `yaml:"section" json:"section"`
	Description string `yaml:"description" json:"description"`
	Penalty     string `yaml:"penalty" json:"penalty"`
}

// ThreatType describes a class of cyber threat.
type ThreatType struct {
	Name               string   `yaml:"name" json:"name"`
	Description        string   `yaml:"description" json:"description"`
	PreventionMeasures string   `yaml:"prevention_measures" json:"prevention_measures"`
	Severity           Severity `yaml:"severity" json:"severity"`
	Examples           []string `yaml:"examples" json:"examples"`
}

// EmergencyScenario is a "what to do right now" playbook.
type EmergencyScenario struct {
	Scenario string   `yaml:"scenario" json:"scenario"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Response string   `yaml:"response" json:"response"`
}

// BestPractice is a security discipline with concrete steps.
type BestPractice struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	Steps       []string `yaml:"steps" json:"steps"`
}

// AttackVector is a delivery route for an attack.
type AttackVector struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	Prevention  string   `yaml:"prevention" json:"prevention"`
}

// IncidentResponseStep is one phase of incident handling.
type IncidentResponseStep struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	Steps       []string `yaml:"steps" json:"steps"`
}

// PreventiveTip is a one-line piece of advice.
type PreventiveTip struct {
	Tip string `yaml:"tip" json:"tip"`
}

// ReportingChannel is a place to report cybercrime.
type ReportingChannel struct {
	Name         string `yaml:"name" json:"name"`
	URLOrContact string `yaml:"url_or_contact" json:"url_or_contact"`
	Description  string `yaml:"description" json:"description"`
}

// TipsDigest is the synthesized record returned for protection-tip requests.
type TipsDigest struct {
	Tips []PreventiveTip `json:"tips"`
}

// ReportingDigest is the synthesized record returned for reporting requests.
type ReportingDigest struct {
	Channels []ReportingChannel `json:"channels"`
}

func (LawEntry) Category() Category             { return CategoryLaw }
func (EmergencyScenario) Category() Category    { return CategoryEmergency }
func (ThreatType) Category() Category           { return CategoryThreat }
func (BestPractice) Category() Category         { return CategoryPractice }
func (AttackVector) Category() Category         { return CategoryVector }
func (IncidentResponseStep) Category() Category { return CategoryIncidentResponse }
func (TipsDigest) Category() Category           { return CategoryTips }
func (ReportingDigest) Category() Category      { return CategoryReporting }

func (r LawEntry) Title() string             { return r.Section }
func (r EmergencyScenario) Title() string    { return r.Scenario }
func (r ThreatType) Title() string           { return r.Name }
func (r BestPractice) Title() string         { return r.Name }
func (r AttackVector) Title() string         { return r.Name }
func (r IncidentResponseStep) Title() string { return r.Name }
func (TipsDigest) Title() string             { return "Protection Tips" }
func (ReportingDigest) Title() string        { return "Reporting Channels" }

func (LawEntry) sealed()             {}
func (EmergencyScenario) sealed()    {}
func (ThreatType) sealed()           {}
func (BestPractice) sealed()         {}
func (AttackVector) sealed()         {}
func (IncidentResponseStep) sealed() {}
func (TipsDigest) sealed()           {}
func (ReportingDigest) sealed()      {}

// MatchMode selects how a handler's triggers are tested against input.
type MatchMode string

const (
	// MatchContains fires when a trigger occurs anywhere in the input.
	MatchContains MatchMode = "contains"
	// MatchWord fires when a trigger equals a whole word of the input.
	MatchWord MatchMode = "word"
)

// Handler is a fixed-phrase rule answered with a canned response before
// any scoring happens.
type Handler struct {
	Name     string    `yaml:"name" json:"name"`
	Match    MatchMode `yaml:"match" json:"match"`
	Triggers []string  `yaml:"triggers" json:"triggers"`
	Response string    `yaml:"response" json:"response"`
}

// Base is the full knowledge base. It is never mutated after loading.
type Base struct {
	Laws               []LawEntry             `yaml:"laws" json:"laws"`
	EmergencyScenarios []EmergencyScenario    `yaml:"emergency_scenarios" json:"emergency_scenarios"`
	Threats            []ThreatType           `yaml:"threats" json:"threats"`
	Practices          []BestPractice         `yaml:"best_practices" json:"best_practices"`
	Vectors            []AttackVector         `yaml:"attack_vectors" json:"attack_vectors"`
	IncidentResponse   []IncidentResponseStep `yaml:"incident_response" json:"incident_response"`
	Tips               []PreventiveTip        `yaml:"preventive_tips" json:"preventive_tips"`
	ReportingChannels  []ReportingChannel     `yaml:"reporting_channels" json:"reporting_channels"`
	Handlers           []Handler              `yaml:"handlers" json:"handlers"`
}

// Counts returns the number of records per category, for status output.
func (b *Base) Counts() map[string]int {
	return map[string]int{
		"laws":                len(b.Laws),
		"emergency_scenarios": len(b.EmergencyScenarios),
		"threats":             len(b.Threats),
		"best_practices":      len(b.Practices),
		"attack_vectors":      len(b.Vectors),
		"incident_response":   len(b.IncidentResponse),
		"preventive_tips":     len(b.Tips),
		"reporting_channels":  len(b.ReportingChannels),
		"handlers":            len(b.Handlers),
	}
}
