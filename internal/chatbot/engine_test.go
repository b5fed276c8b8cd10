package chatbot

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Umesh49/ZeroTrace/internal/intent"
	"github.com/Umesh49/ZeroTrace/internal/knowledge"
)

func handlerResponse(t *testing.T, name string) string {
	t.Helper()
	for _, h := range knowledge.Default().Handlers {
		if h.Name == name {
			return h.Response
		}
	}
	t.Fatalf("handler %q not found", name)
	return ""
}

func TestRespond_Greeting(t *testing.T) {
	want := handlerResponse(t, "greeting")

	for _, in := range []string{"hi", "Hello there!", "HEY", "  yo  "} {
		reply := Default().Respond(in)
		assert.Equal(t, KindShortCircuit, reply.Kind, "input %q", in)
		assert.Equal(t, "greeting", reply.Handler, "input %q", in)
		assert.Equal(t, want, reply.Text, "input %q", in)
	}
}

func TestRespond_GreetingNeedsWholeWord(t *testing.T) {
	// "hi" inside "phishing" and "yo" inside "your" are not greetings.
	reply := Default().Respond("is this phishing")
	assert.NotEqual(t, "greeting", reply.Handler)

	reply = Default().Respond("your name")
	assert.Equal(t, "identity", reply.Handler)
}

func TestRespond_Section66(t *testing.T) {
	reply := Default().Respond("what is section 66 of it act")
	require.Equal(t, KindShortCircuit, reply.Kind)
	assert.Equal(t, "faq-section-66", reply.Handler)
	assert.Contains(t, reply.Text, "Imprisonment up to 3 years")
	assert.Contains(t, reply.Text, "Rs 5 lakh")
}

func TestRespond_ShortCircuits(t *testing.T) {
	tests := []struct {
		input   string
		handler string
	}{
		{"who are you?", "identity"},
		{"What can you do", "capability"},
		{"thanks a lot", "thanks"},
		{"ok bye", "goodbye"},
		{"what is the helpline", "helpline"},
		{"What is phishing?", "faq-phishing"},
		{"my files are encrypted by ransomeware", "faq-ransomware"},
		{"I think I got a virus", "faq-malware"},
		{"tell me about the indian it act", "faq-it-act"},
		{"section 67", "faq-section-67"},
		{"what is cyber security", "cybersecurity"},
	}

	for _, tc := range tests {
		reply := Default().Respond(tc.input)
		assert.Equal(t, KindShortCircuit, reply.Kind, "input %q", tc.input)
		assert.Equal(t, tc.handler, reply.Handler, "input %q", tc.input)
		assert.Equal(t, handlerResponse(t, tc.handler), reply.Text, "input %q", tc.input)
	}
}

func TestRespond_Fallback(t *testing.T) {
	for _, in := range []string{"xyzqqw randomnonsense", "", "   ", "!!!???"} {
		reply := Default().Respond(in)
		assert.Equal(t, KindFallback, reply.Kind, "input %q", in)
		assert.Contains(t, reply.Text, "I couldn't find a confident match", "input %q", in)
		assert.Nil(t, reply.Match)
	}

	reply := Default().Respond("xyzqqw randomnonsense")
	assert.Equal(t, fallbackText(""), reply.Text)
	assert.Zero(t, reply.Candidates)
}

func TestRespond_Tips(t *testing.T) {
	reply := Default().Respond("how do i protect myself")
	require.Equal(t, KindMatch, reply.Kind)
	require.NotNil(t, reply.Match)
	assert.Equal(t, knowledge.CategoryTips, reply.Match.Type)
	assert.Equal(t, DefaultScore, reply.Match.Score)
	assert.InDelta(t, 0.4, reply.Match.Confidence, 1e-9)
	assert.True(t, strings.HasPrefix(reply.Text, "Protection Tips\n- "), reply.Text)

	digest, ok := reply.Match.Item.(knowledge.TipsDigest)
	require.True(t, ok)
	assert.NotEmpty(t, digest.Tips)
	assert.LessOrEqual(t, len(digest.Tips), 5)
}

func TestRespond_Reporting(t *testing.T) {
	reply := Default().Respond("report cybercrime")
	require.Equal(t, KindMatch, reply.Kind)
	assert.Equal(t, knowledge.CategoryReporting, reply.Match.Type)
	assert.Equal(t, "Reporting Channels\n"+
		"- National Cyber Crime Reporting Portal: https://cybercrime.gov.in\n"+
		"- Cyber Crime Helpline: 1930\n"+
		"- Local Police Cyber Cell: Check your city's police website", reply.Text)
}

func TestRespond_Threat(t *testing.T) {
	reply := Default().Respond("explain keyloggers")
	require.Equal(t, KindMatch, reply.Kind)
	assert.Equal(t, knowledge.CategoryThreat, reply.Match.Type)
	assert.Equal(t, "Keyloggers\n"+
		"Description: Malware or hardware that records keystrokes to steal sensitive information like passwords.\n"+
		"Severity: High", reply.Text)
}

func TestRespond_Law(t *testing.T) {
	reply := Default().Respond("define BNS section 318")
	require.Equal(t, KindMatch, reply.Kind)
	assert.Equal(t, knowledge.CategoryLaw, reply.Match.Type)
	assert.Equal(t, 1.0, reply.Match.Confidence)
	assert.True(t, strings.HasPrefix(reply.Text, "BNS Section 318\nDescription: "), reply.Text)
	assert.Contains(t, reply.Text, "\nPenalty: Imprisonment up to 7 years and fine.")
}

func TestRespond_Emergency(t *testing.T) {
	reply := Default().Respond("my files are locked by a ransom demand")
	require.Equal(t, KindMatch, reply.Kind)
	assert.Equal(t, knowledge.CategoryEmergency, reply.Match.Type)
	assert.True(t, strings.HasPrefix(reply.Text, "Emergency Response\nIf hit by ransomware:"), reply.Text)
}

func TestRespond_ScenarioDoesNotOutrankTips(t *testing.T) {
	for _, in := range []string{"how to prevent skimming", "how to handle stolen keystrokes"} {
		reply := Default().Respond(in)
		require.Equal(t, KindMatch, reply.Kind, "input %q", in)
		assert.Equal(t, knowledge.CategoryTips, reply.Match.Type, "input %q", in)
		assert.Equal(t, DefaultScore, reply.Match.Score, "input %q", in)
	}
}

func TestRespond_WeakScenarioFallsBack(t *testing.T) {
	for _, in := range []string{"my account was compromised", "atm fraud"} {
		reply := Default().Respond(in)
		assert.Equal(t, KindFallback, reply.Kind, "input %q", in)
	}
}

func TestRespond_HyphenatedVector(t *testing.T) {
	reply := Default().Respond("how to prevent drive-by downloads")
	require.Equal(t, KindMatch, reply.Kind)
	assert.Equal(t, knowledge.CategoryVector, reply.Match.Type)
	assert.Equal(t, "Protection from Drive-by Downloads\n"+
		"Use ad-blockers, keep browsers updated, disable auto-downloads.", reply.Text)
}

func TestRespond_Total(t *testing.T) {
	inputs := []string{
		"",
		strings.Repeat("ransomware ", 5000),
		strings.Repeat("x", 100000),
		"🔒🔒🔒 ünïcödé 漢字 العربية",
		"\x00\xff\xfe",
		"... --- ... !!! ???",
		"\t\n\r",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			got := GenerateRuleBasedResponse(in)
			assert.NotEmpty(t, got)
		})
	}
}

func TestRespond_Deterministic(t *testing.T) {
	e := Default()
	first := e.GenerateRuleBasedResponse("how to prevent ransomware attacks")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.GenerateRuleBasedResponse("how to prevent ransomware attacks"))
	}
}

func TestRespond_Concurrent(t *testing.T) {
	e := Default()
	want := e.GenerateRuleBasedResponse("explain keyloggers")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, e.GenerateRuleBasedResponse("explain keyloggers"))
		}()
	}
	wg.Wait()
}

func tieBase() *knowledge.Base {
	return &knowledge.Base{
		Practices: []knowledge.BestPractice{{
			Name: "Zeta", Description: "practice", Keywords: []string{"zeta"}, Steps: []string{"a", "b"},
		}},
		Vectors: []knowledge.AttackVector{{
			Name: "Zeta", Description: "vector", Keywords: []string{"zeta"}, Prevention: "p",
		}},
		IncidentResponse: []knowledge.IncidentResponseStep{{
			Name: "Zeta", Description: "response", Keywords: []string{"zeta"}, Steps: []string{"c"},
		}},
	}
}

func TestRespond_TieGoesToEarlierCategory(t *testing.T) {
	e := New(tieBase())

	q := &query{normalized: "zeta", tokens: []string{"zeta"}, intents: intent.Set{intent.General}}
	matches := e.score(q)
	require.Len(t, matches, 3)
	assert.Equal(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, matches[1].Score, matches[2].Score)

	reply := e.Respond("zeta")
	require.Equal(t, KindMatch, reply.Kind)
	assert.Equal(t, knowledge.CategoryPractice, reply.Match.Type)
	assert.Equal(t, "Zeta\nDescription: practice\nSteps: a, b", reply.Text)
}

func TestRespond_Suggestion(t *testing.T) {
	e := New(&knowledge.Base{
		Threats: []knowledge.ThreatType{{
			Name: "Quokka", Description: "a marsupial", PreventionMeasures: "none", Severity: knowledge.SeverityLow,
		}},
	})

	reply := e.Respond("quokak")
	require.Equal(t, KindFallback, reply.Kind)
	assert.Equal(t, "quokka", reply.Suggestion)
	assert.Equal(t, "I couldn't find a confident match for your query. Did you mean \"quokka\"?\n"+
		"Try asking about specific cyber threats (e.g., phishing), laws (e.g., Section 66 of IT Act), or protection tips.",
		reply.Text)
}

func TestRespond_SuggestionKeepsKeywordText(t *testing.T) {
	e := New(&knowledge.Base{
		Vectors: []knowledge.AttackVector{{
			Name: "Drive-by Downloads", Description: "d", Keywords: []string{"drive-by"}, Prevention: "p",
		}},
	})

	reply := e.Respond("drve-by")
	require.Equal(t, KindFallback, reply.Kind)
	assert.Equal(t, "drive-by", reply.Suggestion)
	assert.Contains(t, reply.Text, `Did you mean "drive-by"?`)
}

func TestNew_EmptyBase(t *testing.T) {
	e := New(&knowledge.Base{})
	reply := e.Respond("what is phishing")
	assert.Equal(t, KindFallback, reply.Kind)
	assert.NotEmpty(t, reply.Text)
}
