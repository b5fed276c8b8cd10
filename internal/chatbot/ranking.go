package chatbot

import (
	"fmt"
	"sort"

	"github.com/Umesh49/ZeroTrace/internal/fuzzy"
	"github.com/Umesh49/ZeroTrace/internal/knowledge"
	"github.com/Umesh49/ZeroTrace/internal/textproc"
)

// ScoredMatch is one candidate answer for a query.
type ScoredMatch struct {
	Type       knowledge.Category `json:"type"`
	Item       knowledge.Record   `json:"item"`
	Score      float64            `json:"score"`
	Confidence float64            `json:"confidence"`
}

// NewScoredMatch wraps a record with its score; confidence is derived.
func NewScoredMatch(item knowledge.Record, score float64) ScoredMatch {
	return ScoredMatch{
		Type:       item.Category(),
		Item:       item,
		Score:      score,
		Confidence: min(score/MaxScore, 1),
	}
}

// rank orders matches by descending score. Equal scores keep insertion
// order, so earlier-scored categories win ties.
func rank(matches []ScoredMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}

// confident reports whether the top match is good enough to answer with.
func confident(matches []ScoredMatch) bool {
	return len(matches) > 0 && matches[0].Confidence >= ConfidenceThreshold
}

// suggestionThreshold is the overlap score a vocabulary entry needs before
// it is offered as a "did you mean".
const suggestionThreshold = 0.3

// vocabulary holds the suggestion candidates as authored, for display, and
// folded, for scoring.
type vocabulary struct {
	display []string
	folded  []string
}

func newVocabulary(entries []string) vocabulary {
	var v vocabulary
	for _, e := range entries {
		if f := textproc.Fold(e); f != "" {
			v.display = append(v.display, e)
			v.folded = append(v.folded, f)
		}
	}
	return v
}

// suggest returns the entry closest to tokens, as authored, or "" when
// nothing is close enough.
func (v vocabulary) suggest(tokens []string) string {
	i, score := fuzzy.ClosestIndex(tokens, v.folded)
	if i < 0 || score <= suggestionThreshold {
		return ""
	}
	return v.display[i]
}

const (
	fallbackLead = "I couldn't find a confident match for your query."
	fallbackHint = "Try asking about specific cyber threats (e.g., phishing), laws (e.g., Section 66 of IT Act), or protection tips."
)

// fallbackText is the low-confidence answer, with an optional suggestion.
func fallbackText(suggestion string) string {
	if suggestion == "" {
		return fallbackLead + " \n" + fallbackHint
	}
	return fmt.Sprintf("%s Did you mean \"%s\"?\n%s", fallbackLead, suggestion, fallbackHint)
}
