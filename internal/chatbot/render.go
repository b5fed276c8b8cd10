package chatbot

import (
	"fmt"
	"strings"

	"github.com/Umesh49/ZeroTrace/internal/intent"
	"github.com/Umesh49/ZeroTrace/internal/knowledge"
)

const (
	reportPortal      = "https://cybercrime.gov.in"
	reportInstruction = "To report, visit " + reportPortal + " or call 1930."
	uncategorized     = "I found some information, but I'm not sure how to categorize it. Could you clarify your question?"
)

// answerIntent picks the intent that selects a template. Definition wins
// over action, action over report.
func answerIntent(intents intent.Set) intent.Intent {
	for _, in := range []intent.Intent{intent.Definition, intent.Action, intent.Report} {
		if intents.Has(in) {
			return in
		}
	}
	return intent.General
}

// Render formats a match for the given intents.
func Render(m ScoredMatch, intents intent.Set) string {
	in := answerIntent(intents)

	switch r := m.Item.(type) {
	case knowledge.LawEntry:
		return renderLaw(r, in)
	case knowledge.EmergencyScenario:
		return "Emergency Response\n" + r.Response
	case knowledge.ThreatType:
		return renderThreat(r, in)
	case knowledge.BestPractice:
		return renderSteps(r.Name, r.Description, r.Steps)
	case knowledge.AttackVector:
		return renderVector(r, in)
	case knowledge.IncidentResponseStep:
		return renderSteps(r.Name, r.Description, r.Steps)
	case knowledge.TipsDigest:
		lines := make([]string, len(r.Tips))
		for i, t := range r.Tips {
			lines[i] = t.Tip
		}
		return bulleted(r.Title(), lines)
	case knowledge.ReportingDigest:
		lines := make([]string, len(r.Channels))
		for i, c := range r.Channels {
			lines[i] = c.Name + ": " + c.URLOrContact
		}
		return bulleted(r.Title(), lines)
	default:
		return uncategorized
	}
}

func renderLaw(l knowledge.LawEntry, in intent.Intent) string {
	switch in {
	case intent.Action:
		return fmt.Sprintf("%s\nTo address issues related to %s, consult a legal expert or report to %s.",
			l.Section, strings.TrimSuffix(l.Description, "."), reportPortal)
	case intent.Report:
		return fmt.Sprintf("%s\nTo report a violation, visit %s or contact your local cybercrime cell.",
			l.Section, reportPortal)
	default:
		return fmt.Sprintf("%s\nDescription: %s\nPenalty: %s", l.Section, l.Description, l.Penalty)
	}
}

func renderThreat(t knowledge.ThreatType, in intent.Intent) string {
	switch in {
	case intent.Definition:
		return fmt.Sprintf("%s\nDescription: %s\nSeverity: %s", t.Name, t.Description, t.Severity)
	case intent.Action:
		return fmt.Sprintf("Protection from %s\n%s", t.Name, t.PreventionMeasures)
	case intent.Report:
		return fmt.Sprintf("Reporting %s\n%s", t.Name, reportInstruction)
	default:
		return fmt.Sprintf("%s\nDescription: %s\nPrevention: %s", t.Name, t.Description, t.PreventionMeasures)
	}
}

func renderVector(v knowledge.AttackVector, in intent.Intent) string {
	switch in {
	case intent.Definition:
		return fmt.Sprintf("%s\nDescription: %s", v.Name, v.Description)
	case intent.Action:
		return fmt.Sprintf("Protection from %s\n%s", v.Name, v.Prevention)
	case intent.Report:
		return fmt.Sprintf("Reporting %s\n%s", v.Name, reportInstruction)
	default:
		return fmt.Sprintf("%s\nDescription: %s\nPrevention: %s", v.Name, v.Description, v.Prevention)
	}
}

func renderSteps(name, description string, steps []string) string {
	return fmt.Sprintf("%s\nDescription: %s\nSteps: %s", name, description, strings.Join(steps, ", "))
}

func bulleted(title string, lines []string) string {
	var b strings.Builder
	b.WriteString(title)
	for _, l := range lines {
		b.WriteString("\n- ")
		b.WriteString(l)
	}
	return b.String()
}
