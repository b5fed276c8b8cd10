package knowledge

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// embeddedFiles are decoded in order into one Base.
var embeddedFiles = []string{"data/knowledge.yaml", "data/conversation.yaml"}

// minReportingChannels is how many channels the reporting digest renders.
const minReportingChannels = 3

var loadDefault = sync.OnceValues(func() (*Base, error) {
	docs := make([][]byte, 0, len(embeddedFiles))
	for _, name := range embeddedFiles {
		data, err := dataFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading embedded %s: %w", name, err)
		}
		docs = append(docs, data)
	}
	return Parse(docs...)
})

// Default returns the embedded knowledge base. It is decoded once per
// process; an invalid embedded file is a build defect and panics.
func Default() *Base {
	b, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("knowledge: embedded knowledge base is invalid: %v", err))
	}
	return b
}

// LoadFromFile loads a knowledge base from a single YAML file.
func LoadFromFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge file: %w", err)
	}
	return Parse(data)
}

// Parse decodes one or more YAML documents into a single Base and validates
// it. Later documents fill sections the earlier ones left empty.
func Parse(docs ...[]byte) (*Base, error) {
	var b Base
	for i, data := range docs {
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("parsing knowledge YAML (document %d): %w", i, err)
		}
	}
	if err := validate(&b); err != nil {
		return nil, fmt.Errorf("validating knowledge base: %w", err)
	}
	return &b, nil
}

// validate checks knowledge-base integrity.
func validate(b *Base) error {
	for i, l := range b.Laws {
		if l.Section == "" || l.Description == "" || l.Penalty == "" {
			return fmt.Errorf("law %d: section, description and penalty are required", i)
		}
	}
	for i, s := range b.EmergencyScenarios {
		if s.Scenario == "" || s.Response == "" {
			return fmt.Errorf("emergency scenario %d: scenario and response are required", i)
		}
		if len(s.Keywords) == 0 {
			return fmt.Errorf("emergency scenario %q: at least one keyword is required", s.Scenario)
		}
	}
	for i, t := range b.Threats {
		if t.Name == "" || t.Description == "" || t.PreventionMeasures == "" {
			return fmt.Errorf("threat %d: name, description and prevention_measures are required", i)
		}
		if !t.Severity.Valid() {
			return fmt.Errorf("threat %q: invalid severity %q", t.Name, t.Severity)
		}
	}
	for i, p := range b.Practices {
		if p.Name == "" || p.Description == "" {
			return fmt.Errorf("best practice %d: name and description are required", i)
		}
		if len(p.Keywords) == 0 || len(p.Steps) == 0 {
			return fmt.Errorf("best practice %q: keywords and steps are required", p.Name)
		}
	}
	for i, v := range b.Vectors {
		if v.Name == "" || v.Description == "" || v.Prevention == "" {
			return fmt.Errorf("attack vector %d: name, description and prevention are required", i)
		}
		if len(v.Keywords) == 0 {
			return fmt.Errorf("attack vector %q: at least one keyword is required", v.Name)
		}
	}
	for i, r := range b.IncidentResponse {
		if r.Name == "" || r.Description == "" {
			return fmt.Errorf("incident response step %d: name and description are required", i)
		}
		if len(r.Keywords) == 0 || len(r.Steps) == 0 {
			return fmt.Errorf("incident response step %q: keywords and steps are required", r.Name)
		}
	}
	for i, t := range b.Tips {
		if t.Tip == "" {
			return fmt.Errorf("preventive tip %d: tip is required", i)
		}
	}
	if len(b.ReportingChannels) < minReportingChannels {
		return fmt.Errorf("at least %d reporting channels are required, got %d", minReportingChannels, len(b.ReportingChannels))
	}
	for i, c := range b.ReportingChannels {
		if c.Name == "" || c.URLOrContact == "" {
			return fmt.Errorf("reporting channel %d: name and url_or_contact are required", i)
		}
	}

	seen := make(map[string]bool, len(b.Handlers))
	for i, h := range b.Handlers {
		if h.Name == "" {
			return fmt.Errorf("handler %d: name is required", i)
		}
		if seen[h.Name] {
			return fmt.Errorf("handler %q: duplicate name", h.Name)
		}
		seen[h.Name] = true
		switch h.Match {
		case "":
			b.Handlers[i].Match = MatchContains
		case MatchContains, MatchWord:
		default:
			return fmt.Errorf("handler %q: invalid match %q", h.Name, h.Match)
		}
		if len(h.Triggers) == 0 {
			return fmt.Errorf("handler %q: at least one trigger is required", h.Name)
		}
		if h.Response == "" {
			return fmt.Errorf("handler %q: response is required", h.Name)
		}
	}

	return nil
}

// Vocabulary lists every name and keyword the engine can match, lowercased:
// law sections, emergency keywords, threat names, then practice, vector and
// incident-response keywords.
func (b *Base) Vocabulary() []string {
	var out []string
	for _, l := range b.Laws {
		out = append(out, strings.ToLower(l.Section))
	}
	for _, s := range b.EmergencyScenarios {
		out = appendLower(out, s.Keywords)
	}
	for _, t := range b.Threats {
		out = append(out, strings.ToLower(t.Name))
	}
	for _, p := range b.Practices {
		out = appendLower(out, p.Keywords)
	}
	for _, v := range b.Vectors {
		out = appendLower(out, v.Keywords)
	}
	for _, r := range b.IncidentResponse {
		out = appendLower(out, r.Keywords)
	}
	return out
}

func appendLower(dst, words []string) []string {
	for _, w := range words {
		dst = append(dst, strings.ToLower(w))
	}
	return dst
}
