package pipeline

import (
	"time"

	"github.com/Umesh49/ZeroTrace/internal/chatbot"
)

// Result captures one answered query.
type Result struct {
	RequestID string         `json:"request_id"`
	Source    string         `json:"source"`
	Reply     *chatbot.Reply `json:"reply"`
	Duration  time.Duration  `json:"duration_ns"`
}

// Text returns the reply text.
func (r *Result) Text() string {
	return r.Reply.Text
}

// IsFallback returns true if the engine had no confident answer.
func (r *Result) IsFallback() bool {
	return r.Reply.Kind == chatbot.KindFallback
}

// Report is the match summary attached to API responses.
type Report struct {
	RequestID  string       `json:"request_id"`
	Kind       chatbot.Kind `json:"kind"`
	Handler    string       `json:"handler,omitempty"`
	Match      *MatchReport `json:"match,omitempty"`
	Suggestion string       `json:"suggestion,omitempty"`
	Intents    []string     `json:"intents"`
}

// MatchReport summarizes the top-ranked match.
type MatchReport struct {
	Type       string  `json:"type"`
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// BuildReport assembles the match summary for this result.
func (r *Result) BuildReport() *Report {
	rep := &Report{
		RequestID:  r.RequestID,
		Kind:       r.Reply.Kind,
		Handler:    r.Reply.Handler,
		Suggestion: r.Reply.Suggestion,
		Intents:    r.Reply.Intents.Strings(),
	}
	if m := r.Reply.Match; m != nil {
		rep.Match = &MatchReport{
			Type:       string(m.Type),
			Title:      m.Item.Title(),
			Score:      m.Score,
			Confidence: m.Confidence,
		}
	}
	return rep
}
