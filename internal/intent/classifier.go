package intent

import "strings"

// Intent is a coarse classification of what the user wants.
type Intent string

const (
	Definition Intent = "definition"
	Action     Intent = "action"
	Report     Intent = "report"
	General    Intent = "general"
)

// Set is the ordered list of intents detected in one query.
type Set []Intent

// Has reports whether the set contains in.
func (s Set) Has(in Intent) bool {
	for _, v := range s {
		if v == in {
			return true
		}
	}
	return false
}

// Strings returns the intents as plain strings.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = string(v)
	}
	return out
}

// intentRule maps trigger phrases to an intent.
type intentRule struct {
	intent   Intent
	triggers []string
}

var intentRules = []intentRule{
	{Definition, []string{"what is", "define", "explain", "tell me about"}},
	{Action, []string{"how to", "steps to", "prevent", "protect", "safety", "myself"}},
	{Report, []string{"report", "where to report", "how to report", "cybercrime", "complaint"}},
}

// Classify returns every intent whose trigger phrases occur in normalized
// text. Intents are not exclusive; General is returned when none match.
func Classify(normalized string) Set {
	var set Set
	for _, rule := range intentRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(normalized, trigger) {
				set = append(set, rule.intent)
				break
			}
		}
	}
	if len(set) == 0 {
		return Set{General}
	}
	return set
}
