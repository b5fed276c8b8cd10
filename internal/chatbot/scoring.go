package chatbot

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Umesh49/ZeroTrace/internal/fuzzy"
	"github.com/Umesh49/ZeroTrace/internal/intent"
	"github.com/Umesh49/ZeroTrace/internal/knowledge"
	"github.com/Umesh49/ZeroTrace/internal/textproc"
)

const (
	// MaxScore normalizes scores of every category into a confidence.
	MaxScore = 30.0
	// ConfidenceThreshold is the lowest top-match confidence that is answered.
	ConfidenceThreshold = 0.3
	// DefaultScore is the fixed score of the tips and reporting digests.
	DefaultScore = 12.0

	// maxDigestTips and maxDigestChannels bound the digest bodies.
	maxDigestTips     = 5
	maxDigestChannels = 3
)

// Per-category weights.
const (
	lawSectionBonus     = 15
	lawNumberBonus      = 10
	lawNumberPrefixHit  = 5
	lawTextHit          = 3
	lawWordHit          = 2
	lawPenaltyBonus     = 3
	lawHackBonus        = 3
	lawDefinitionBonus  = 2
	containsKeyword     = 10
	keywordWordHit      = 3
	nearHit             = 1
	descriptionHit      = 2
	overlapMultiplier   = 2
	emergencyIntent     = 5
	threatDefinition    = 2
	threatAction        = 3
	recordKeywordHit    = 5
	nameHit             = 2
	practiceActionBonus = 5
	vectorActionBonus   = 3
	responseReportBonus = 5
)

var sectionNumber = regexp.MustCompile(`\d+[a-z]*`)

// query is the per-call view of one normalized input.
type query struct {
	normalized string
	tokens     []string
	intents    intent.Set
}

func (q *query) mentions(words ...string) bool {
	for _, w := range words {
		if strings.Contains(q.normalized, w) {
			return true
		}
	}
	return false
}

// Indexed records carry the folded text the scorers compare against. The
// knowledge-base record itself is kept unchanged for rendering.

type lawRecord struct {
	rec         knowledge.LawEntry
	section     string
	description string
	penalty     string
	number      string
	words       []string
}

type scenarioRecord struct {
	rec      knowledge.EmergencyScenario
	keywords [][]string
	phrases  []string
}

type threatRecord struct {
	rec         knowledge.ThreatType
	name        string
	description string
	words       []string
}

// keywordRecord indexes practices, vectors and incident-response steps,
// which share one scoring rule.
type keywordRecord struct {
	rec      knowledge.Record
	name     string
	words    []string
	keywords []string
}

type tipRecord struct {
	rec   knowledge.PreventiveTip
	words []string
}

func indexLaw(l knowledge.LawEntry) lawRecord {
	section := textproc.Fold(l.Section)
	return lawRecord{
		rec:         l,
		section:     section,
		description: textproc.Fold(l.Description),
		penalty:     textproc.Fold(l.Penalty),
		number:      sectionNumber.FindString(section),
		words:       strings.Fields(section),
	}
}

func indexScenario(s knowledge.EmergencyScenario) scenarioRecord {
	r := scenarioRecord{rec: s}
	for _, k := range s.Keywords {
		phrase := textproc.Fold(k)
		if phrase == "" {
			continue
		}
		r.phrases = append(r.phrases, phrase)
		r.keywords = append(r.keywords, strings.Fields(phrase))
	}
	return r
}

func indexThreat(t knowledge.ThreatType) threatRecord {
	name := textproc.Fold(t.Name)
	return threatRecord{
		rec:         t,
		name:        name,
		description: textproc.Fold(t.Description),
		words:       strings.Fields(name),
	}
}

func indexKeywords(rec knowledge.Record, keywords []string) keywordRecord {
	name := textproc.Fold(rec.Title())
	r := keywordRecord{rec: rec, name: name, words: strings.Fields(name)}
	for _, k := range keywords {
		if f := textproc.Fold(k); f != "" {
			r.keywords = append(r.keywords, f)
		}
	}
	return r
}

func indexTip(t knowledge.PreventiveTip) tipRecord {
	return tipRecord{rec: t, words: strings.Fields(textproc.Fold(t.Tip))}
}

// tokenHits scores each token against a word list: exact hits earn exact,
// hits within the typo threshold earn nearHit.
func tokenHits(tokens, words []string, exact float64) float64 {
	score := 0.0
	for _, t := range tokens {
		if slices.Contains(words, t) {
			score += exact
		} else if fuzzy.NearAny(t, words) {
			score += nearHit
		}
	}
	return score
}

// textHits counts tokens that occur as substrings of any of texts.
func textHits(tokens []string, weight float64, texts ...string) float64 {
	score := 0.0
	for _, t := range tokens {
		for _, text := range texts {
			if strings.Contains(text, t) {
				score += weight
				break
			}
		}
	}
	return score
}

func scoreLaw(q *query, l *lawRecord) float64 {
	score := 0.0
	if strings.Contains(q.normalized, l.section) {
		score += lawSectionBonus
	}
	if l.number != "" {
		if strings.Contains(q.normalized, l.number) {
			score += lawNumberBonus
		} else if len(l.number) > 2 && strings.Contains(q.normalized, l.number[:2]) {
			score += lawNumberPrefixHit
		}
	}

	score += textHits(q.tokens, lawTextHit, l.description, l.penalty)
	score += tokenHits(q.tokens, l.words, lawWordHit)
	score += fuzzy.OverlapScore(q.tokens, l.words) * overlapMultiplier

	if q.mentions("fine", "penalty") &&
		(strings.Contains(l.penalty, "fine") || strings.Contains(l.penalty, "imprisonment")) {
		score += lawPenaltyBonus
	}
	if q.mentions("hack") &&
		(strings.Contains(l.description, "hack") ||
			strings.Contains(l.description, "unauthorized") ||
			strings.Contains(l.description, "computer related")) {
		score += lawHackBonus
	}
	if q.intents.Has(intent.Definition) {
		score += lawDefinitionBonus
	}
	return score
}

// scoreScenario scores the scenario's keywords in order and stops at the
// first one that scores above zero. With action or report intent that is
// always the first keyword.
func scoreScenario(q *query, s *scenarioRecord) float64 {
	for i, words := range s.keywords {
		score := 0.0
		if strings.Contains(q.normalized, s.phrases[i]) {
			score += containsKeyword
		}
		score += tokenHits(q.tokens, words, keywordWordHit)
		score += fuzzy.OverlapScore(q.tokens, words) * overlapMultiplier
		if q.intents.Has(intent.Action) || q.intents.Has(intent.Report) {
			score += emergencyIntent
		}
		if score > 0 {
			return score
		}
	}
	return 0
}

func scoreThreat(q *query, t *threatRecord) float64 {
	score := 0.0
	if strings.Contains(q.normalized, t.name) {
		score += containsKeyword
	}
	score += tokenHits(q.tokens, t.words, keywordWordHit)
	score += textHits(q.tokens, descriptionHit, t.description)
	score += fuzzy.OverlapScore(q.tokens, t.words) * overlapMultiplier

	switch {
	case q.intents.Has(intent.Definition):
		score += threatDefinition
	case q.intents.Has(intent.Action):
		score += threatAction
	}
	return score
}

// scoreKeywords is the shared rule for practices, vectors and
// incident-response steps; bonus is added when the category's intent is
// present.
func scoreKeywords(q *query, r *keywordRecord, bonusIntent intent.Intent, bonus float64) float64 {
	score := 0.0
	for _, k := range r.keywords {
		if strings.Contains(q.normalized, k) {
			score += recordKeywordHit
		}
	}
	score += tokenHits(q.tokens, r.keywords, keywordWordHit)
	score += textHits(q.tokens, nameHit, r.name)
	score += fuzzy.OverlapScore(q.tokens, r.words) * overlapMultiplier
	if q.intents.Has(bonusIntent) {
		score += bonus
	}
	return score
}

func scorePractice(q *query, r *keywordRecord) float64 {
	return scoreKeywords(q, r, intent.Action, practiceActionBonus)
}

func scoreVector(q *query, r *keywordRecord) float64 {
	return scoreKeywords(q, r, intent.Action, vectorActionBonus)
}

func scoreIncidentResponse(q *query, r *keywordRecord) float64 {
	return scoreKeywords(q, r, intent.Report, responseReportBonus)
}

// wantsTips reports whether the query asks for protection advice.
func wantsTips(q *query) bool {
	return q.intents.Has(intent.Action) || q.mentions("protect", "prevent", "tips", "myself")
}

// wantsReporting reports whether the query asks where to report.
func wantsReporting(q *query) bool {
	return q.intents.Has(intent.Report) || q.mentions("report", "cybercrime")
}

// tipsDigest selects up to five tips sharing a word, or a near word, with
// the query; the first five tips otherwise.
func tipsDigest(q *query, tips []tipRecord) knowledge.TipsDigest {
	var d knowledge.TipsDigest
	for i := range tips {
		if len(d.Tips) == maxDigestTips {
			break
		}
		if relevantTip(q.tokens, tips[i].words) {
			d.Tips = append(d.Tips, tips[i].rec)
		}
	}
	if len(d.Tips) > 0 {
		return d
	}
	for i := 0; i < len(tips) && i < maxDigestTips; i++ {
		d.Tips = append(d.Tips, tips[i].rec)
	}
	return d
}

func relevantTip(tokens, words []string) bool {
	for _, t := range tokens {
		if slices.Contains(words, t) || fuzzy.NearAny(t, words) {
			return true
		}
	}
	return false
}

func reportingDigest(channels []knowledge.ReportingChannel) knowledge.ReportingDigest {
	n := min(len(channels), maxDigestChannels)
	return knowledge.ReportingDigest{Channels: channels[:n:n]}
}
