package textproc

import "strings"

// Stopwords are common function words that carry no topic signal.
var Stopwords = map[string]struct{}{
	"what": {}, "is": {}, "of": {}, "the": {}, "a": {}, "an": {}, "in": {},
	"to": {}, "for": {}, "on": {}, "with": {}, "about": {}, "how": {},
	"and": {}, "are": {}, "can": {}, "do": {}, "tell": {}, "me": {},
	"please": {}, "i": {}, "you": {}, "it": {}, "at": {}, "by": {}, "from": {},
}

// Tokenize splits text on whitespace and drops single-character tokens.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// RemoveStopwords filters stopwords out of tokens, keeping order.
func RemoveStopwords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := Stopwords[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// ContentTokens returns the significant tokens of already-normalized text.
func ContentTokens(normalized string) []string {
	return RemoveStopwords(Tokenize(normalized))
}
