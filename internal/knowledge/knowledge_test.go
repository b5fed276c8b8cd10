package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Counts(t *testing.T) {
	kb := Default()

	assert.Len(t, kb.Laws, 15)
	assert.Len(t, kb.Threats, 19)
	assert.Len(t, kb.EmergencyScenarios, 15)
	assert.Len(t, kb.Practices, 6)
	assert.Len(t, kb.Vectors, 5)
	assert.Len(t, kb.IncidentResponse, 5)
	assert.Len(t, kb.Tips, 28)
	assert.Len(t, kb.ReportingChannels, 12)

	counts := kb.Counts()
	assert.Equal(t, 15, counts["laws"])
	assert.Equal(t, len(kb.Handlers), counts["handlers"])
}

func TestDefault_SameInstance(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestDefault_HandlerOrder(t *testing.T) {
	kb := Default()
	require.NotEmpty(t, kb.Handlers)

	names := make([]string, len(kb.Handlers))
	for i, h := range kb.Handlers {
		names[i] = h.Name
	}
	assert.Equal(t, []string{"greeting", "identity", "capability", "thanks", "goodbye", "helpline"}, names[:6])
	assert.Equal(t, "cybersecurity", names[len(names)-1])

	idx := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		t.Fatalf("handler %q not found", name)
		return -1
	}
	assert.Less(t, idx("faq-section-66"), idx("faq-it-act"))
	assert.Less(t, idx("faq-section-67"), idx("faq-it-act"))

	assert.Equal(t, MatchWord, kb.Handlers[0].Match)
	assert.Equal(t, MatchContains, kb.Handlers[1].Match)
}

func TestDefault_Section66Answer(t *testing.T) {
	for _, h := range Default().Handlers {
		if h.Name != "faq-section-66" {
			continue
		}
		assert.Contains(t, h.Response, "Imprisonment up to 3 years")
		assert.Contains(t, h.Response, "Rs 5 lakh")
		assert.True(t, strings.HasPrefix(h.Response, "SECTION 66 OF IT ACT\n\n"))
		return
	}
	t.Fatal("faq-section-66 handler missing")
}

func TestDefault_Severities(t *testing.T) {
	for _, th := range Default().Threats {
		assert.True(t, th.Severity.Valid(), "threat %s", th.Name)
	}
}

func TestRecord_Interface(t *testing.T) {
	kb := Default()
	records := []Record{
		kb.Laws[0], kb.EmergencyScenarios[0], kb.Threats[0], kb.Practices[0],
		kb.Vectors[0], kb.IncidentResponse[0], TipsDigest{}, ReportingDigest{},
	}
	want := []Category{
		CategoryLaw, CategoryEmergency, CategoryThreat, CategoryPractice,
		CategoryVector, CategoryIncidentResponse, CategoryTips, CategoryReporting,
	}
	for i, r := range records {
		assert.Equal(t, want[i], r.Category())
		assert.NotEmpty(t, r.Title())
	}
	assert.Equal(t, "Section 43 of IT Act", kb.Laws[0].Title())
	assert.Equal(t, "Protection Tips", TipsDigest{}.Title())
}

func TestVocabulary(t *testing.T) {
	kb := Default()
	vocab := kb.Vocabulary()

	want := len(kb.Laws) + len(kb.Threats)
	for _, s := range kb.EmergencyScenarios {
		want += len(s.Keywords)
	}
	for _, p := range kb.Practices {
		want += len(p.Keywords)
	}
	for _, v := range kb.Vectors {
		want += len(v.Keywords)
	}
	for _, r := range kb.IncidentResponse {
		want += len(r.Keywords)
	}
	require.Len(t, vocab, want)

	assert.Equal(t, "section 43 of it act", vocab[0])
	assert.Contains(t, vocab, "phishing")
	assert.Contains(t, vocab, "high cpu")
	for _, v := range vocab {
		assert.Equal(t, strings.ToLower(v), v)
	}
}

const minimalBase = `
laws:
  - section: Section 1
    description: d
    penalty: p
reporting_channels:
  - {name: a, url_or_contact: "1"}
  - {name: b, url_or_contact: "2"}
  - {name: c, url_or_contact: "3"}
handlers:
  - name: hello
    triggers: [hello]
    response: hi there
`

func TestParse_Minimal(t *testing.T) {
	kb, err := Parse([]byte(minimalBase))
	require.NoError(t, err)
	assert.Len(t, kb.Laws, 1)
	require.Len(t, kb.Handlers, 1)
	assert.Equal(t, MatchContains, kb.Handlers[0].Match, "empty match defaults to contains")
}

func TestParse_MultipleDocuments(t *testing.T) {
	extra := `
threats:
  - name: T
    description: d
    prevention_measures: p
    severity: Low
`
	kb, err := Parse([]byte(minimalBase), []byte(extra))
	require.NoError(t, err)
	assert.Len(t, kb.Laws, 1)
	assert.Len(t, kb.Threats, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "bad yaml",
			yaml: "laws: [",
			want: "parsing knowledge YAML",
		},
		{
			name: "missing penalty",
			yaml: "laws:\n  - {section: s, description: d}\n",
			want: "law 0",
		},
		{
			name: "invalid severity",
			yaml: "threats:\n  - {name: T, description: d, prevention_measures: p, severity: Extreme}\n",
			want: `invalid severity "Extreme"`,
		},
		{
			name: "scenario without keywords",
			yaml: "emergency_scenarios:\n  - {scenario: s, response: r}\n",
			want: "at least one keyword",
		},
		{
			name: "too few channels",
			yaml: "reporting_channels:\n  - {name: a, url_or_contact: b}\n",
			want: "at least 3 reporting channels",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParse_HandlerErrors(t *testing.T) {
	base := strings.SplitN(minimalBase, "handlers:", 2)[0]

	_, err := Parse([]byte(base + "handlers:\n  - {name: x, triggers: [a], response: r}\n  - {name: x, triggers: [b], response: r}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate name")

	_, err = Parse([]byte(base + "handlers:\n  - {name: x, match: regex, triggers: [a], response: r}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid match "regex"`)

	_, err = Parse([]byte(base + "handlers:\n  - {name: x, response: r}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one trigger")

	_, err = Parse([]byte(base + "handlers:\n  - {name: x, triggers: [a]}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response is required")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalBase), 0o644))

	kb, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, kb.Laws, 1)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading knowledge file")
}
