package chatbot

import (
	"slices"
	"strings"

	"github.com/Umesh49/ZeroTrace/internal/knowledge"
	"github.com/Umesh49/ZeroTrace/internal/textproc"
)

// handlerTable holds the short-circuit handlers in priority order.
type handlerTable struct {
	handlers []knowledge.Handler
	triggers [][]string
}

func newHandlerTable(handlers []knowledge.Handler) *handlerTable {
	t := &handlerTable{
		handlers: handlers,
		triggers: make([][]string, len(handlers)),
	}
	for i, h := range handlers {
		for _, trig := range h.Triggers {
			if f := textproc.Fold(trig); f != "" {
				t.triggers[i] = append(t.triggers[i], f)
			}
		}
	}
	return t
}

// Evaluate returns the first handler with a matching trigger, or nil.
func (t *handlerTable) Evaluate(normalized string) *knowledge.Handler {
	var words []string
	for i := range t.handlers {
		h := &t.handlers[i]
		if h.Match == knowledge.MatchWord {
			if words == nil {
				words = strings.Fields(normalized)
			}
			if matchWord(t.triggers[i], words) {
				return h
			}
			continue
		}
		if matchContains(t.triggers[i], normalized) {
			return h
		}
	}
	return nil
}

func matchContains(triggers []string, text string) bool {
	for _, trig := range triggers {
		if strings.Contains(text, trig) {
			return true
		}
	}
	return false
}

// matchWord matches single-word triggers against words and multi-word
// triggers against the word sequence.
func matchWord(triggers, words []string) bool {
	for _, trig := range triggers {
		if !strings.Contains(trig, " ") {
			if slices.Contains(words, trig) {
				return true
			}
			continue
		}
		joined := " " + strings.Join(words, " ") + " "
		if strings.Contains(joined, " "+trig+" ") {
			return true
		}
	}
	return false
}
