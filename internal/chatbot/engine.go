// Package chatbot answers free-form cybersecurity questions from the
// knowledge base. Answering is deterministic and has no side effects; an
// Engine is safe for concurrent use.
package chatbot

import (
	"sync"

	"github.com/Umesh49/ZeroTrace/internal/intent"
	"github.com/Umesh49/ZeroTrace/internal/knowledge"
	"github.com/Umesh49/ZeroTrace/internal/textproc"
)

// Kind says which path produced a reply.
type Kind string

const (
	KindShortCircuit Kind = "short_circuit"
	KindMatch        Kind = "match"
	KindFallback     Kind = "fallback"
)

// Reply is the answer to one message plus how it was reached.
type Reply struct {
	Text       string       `json:"text"`
	Kind       Kind         `json:"kind"`
	Handler    string       `json:"handler,omitempty"`
	Match      *ScoredMatch `json:"match,omitempty"`
	Candidates int          `json:"candidates"`
	Suggestion string       `json:"suggestion,omitempty"`
	Intents    intent.Set   `json:"intents"`
	Tokens     []string     `json:"tokens"`
}

// Engine scores queries against one knowledge base. It is immutable after
// New.
type Engine struct {
	kb         *knowledge.Base
	handlers   *handlerTable
	laws       []lawRecord
	scenarios  []scenarioRecord
	threats    []threatRecord
	practices  []keywordRecord
	vectors    []keywordRecord
	responses  []keywordRecord
	tips       []tipRecord
	vocabulary vocabulary
}

// New indexes kb for scoring. kb must not be modified afterwards.
func New(kb *knowledge.Base) *Engine {
	e := &Engine{
		kb:       kb,
		handlers: newHandlerTable(kb.Handlers),
	}
	for _, l := range kb.Laws {
		e.laws = append(e.laws, indexLaw(l))
	}
	for _, s := range kb.EmergencyScenarios {
		e.scenarios = append(e.scenarios, indexScenario(s))
	}
	for _, t := range kb.Threats {
		e.threats = append(e.threats, indexThreat(t))
	}
	for _, p := range kb.Practices {
		e.practices = append(e.practices, indexKeywords(p, p.Keywords))
	}
	for _, v := range kb.Vectors {
		e.vectors = append(e.vectors, indexKeywords(v, v.Keywords))
	}
	for _, r := range kb.IncidentResponse {
		e.responses = append(e.responses, indexKeywords(r, r.Keywords))
	}
	for _, t := range kb.Tips {
		e.tips = append(e.tips, indexTip(t))
	}
	e.vocabulary = newVocabulary(kb.Vocabulary())
	return e
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return New(knowledge.Default())
})

// Default returns the engine over the embedded knowledge base.
func Default() *Engine {
	return defaultEngine()
}

// Knowledge returns the knowledge base the engine answers from.
func (e *Engine) Knowledge() *knowledge.Base {
	return e.kb
}

// GenerateRuleBasedResponse answers input with the default engine.
func GenerateRuleBasedResponse(input string) string {
	return Default().GenerateRuleBasedResponse(input)
}

// GenerateRuleBasedResponse returns only the reply text for input.
func (e *Engine) GenerateRuleBasedResponse(input string) string {
	return e.Respond(input).Text
}

// Respond answers input. It is defined for every string and never returns
// an empty Text.
func (e *Engine) Respond(input string) *Reply {
	normalized := textproc.Normalize(input)
	q := &query{
		normalized: normalized,
		tokens:     textproc.ContentTokens(normalized),
		intents:    intent.Classify(normalized),
	}
	reply := &Reply{Intents: q.intents, Tokens: q.tokens}

	if h := e.handlers.Evaluate(normalized); h != nil {
		reply.Kind = KindShortCircuit
		reply.Handler = h.Name
		reply.Text = h.Response
		return reply
	}

	matches := e.score(q)
	reply.Candidates = len(matches)
	rank(matches)

	if !confident(matches) {
		reply.Kind = KindFallback
		reply.Suggestion = e.vocabulary.suggest(q.tokens)
		reply.Text = fallbackText(reply.Suggestion)
		return reply
	}

	top := matches[0]
	reply.Kind = KindMatch
	reply.Match = &top
	reply.Text = Render(top, q.intents)
	return reply
}

// score returns every candidate with a positive score, in category order:
// laws, emergency scenarios, threats, practices, vectors, incident
// response, then the tips and reporting digests.
func (e *Engine) score(q *query) []ScoredMatch {
	var matches []ScoredMatch
	add := func(rec knowledge.Record, points float64) {
		if points > 0 {
			matches = append(matches, NewScoredMatch(rec, points))
		}
	}

	for i := range e.laws {
		add(e.laws[i].rec, scoreLaw(q, &e.laws[i]))
	}
	for i := range e.scenarios {
		add(e.scenarios[i].rec, scoreScenario(q, &e.scenarios[i]))
	}
	for i := range e.threats {
		add(e.threats[i].rec, scoreThreat(q, &e.threats[i]))
	}
	for i := range e.practices {
		add(e.practices[i].rec, scorePractice(q, &e.practices[i]))
	}
	for i := range e.vectors {
		add(e.vectors[i].rec, scoreVector(q, &e.vectors[i]))
	}
	for i := range e.responses {
		add(e.responses[i].rec, scoreIncidentResponse(q, &e.responses[i]))
	}

	if wantsTips(q) && len(e.tips) > 0 {
		add(tipsDigest(q, e.tips), DefaultScore)
	}
	if wantsReporting(q) && len(e.kb.ReportingChannels) > 0 {
		add(reportingDigest(e.kb.ReportingChannels), DefaultScore)
	}
	return matches
}
