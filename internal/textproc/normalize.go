package textproc

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxRewritePasses bounds the replacement loop. The table converges in two
// passes for any input; the bound only guards against a bad table edit.
const maxRewritePasses = 8

var nonWord = regexp.MustCompile(`[\W_]+`)

// replacement rewrites one misspelling, synonym or abbreviation to its
// canonical form, as a whole word.
type replacement struct {
	key     string
	value   string
	pattern *regexp.Regexp
	// guard matches the canonical form when the canonical form itself
	// contains key (breach -> data breach). Key hits inside a guard hit
	// are left alone.
	guard *regexp.Regexp
}

// Replacements is the rewrite table, applied in order over the whole text.
var Replacements = compileReplacements([][2]string{
	{"ac", "act"},
	{"indian it act", "it act"},
	{"indain", "indian"},
	{"sction", "section"},
	{"secton", "section"},
	{"sction66a", "section 66a"},
	{"secton66a", "section 66a"},
	{"phising", "phishing"},
	{"ransomeware", "ransomware"},
	{"hack", "hacking"},
	{"secure", "security"},
	{"lawz", "law"},
	{"cybercrimez", "cybercrime"},
	{"virus", "malware"},
	{"breach", "data breach"},
	{"sction66", "section 66"},
	{"secton66", "section 66"},
	{"skiming", "skimming"},
	{"worms", "worm"},
	{"dpda", "dpdp act"},
	{"dpdp", "dpdp act"},
	{"dpdpa", "dpdp act"},
})

func wholeWord(s string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(s) + `\b`)
}

// compileReplacements builds the rewrite table. Panics on invalid entries
// (they are compile-time constants).
func compileReplacements(pairs [][2]string) []replacement {
	out := make([]replacement, len(pairs))
	for i, p := range pairs {
		r := replacement{key: p[0], value: p[1], pattern: wholeWord(p[0])}
		if r.pattern.MatchString(p[1]) {
			r.guard = wholeWord(p[1])
		}
		out[i] = r
	}
	return out
}

func (r *replacement) apply(text string) string {
	hits := r.pattern.FindAllStringIndex(text, -1)
	if len(hits) == 0 {
		return text
	}
	var protected [][]int
	if r.guard != nil {
		protected = r.guard.FindAllStringIndex(text, -1)
	}

	var b strings.Builder
	last := 0
	for _, h := range hits {
		if within(protected, h) {
			continue
		}
		b.WriteString(text[last:h[0]])
		b.WriteString(r.value)
		last = h[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func within(spans [][]int, hit []int) bool {
	for _, s := range spans {
		if hit[0] >= s[0] && hit[1] <= s[1] {
			return true
		}
	}
	return false
}

// Normalize lowercases the input, rewrites known misspellings and synonyms,
// and reduces it to lowercase ASCII words separated by single spaces.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(input string) string {
	text := strings.ToLower(strings.TrimSpace(norm.NFKC.String(input)))
	// Underscores split words before the first rewrite.
	text = clean(text)

	for i := 0; i < maxRewritePasses; i++ {
		next := clean(rewrite(text))
		if next == text {
			break
		}
		text = next
	}
	return text
}

func rewrite(text string) string {
	for i := range Replacements {
		text = Replacements[i].apply(text)
	}
	return text
}

// clean strips non-word characters to single spaces and trims.
func clean(text string) string {
	text = nonWord.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Fold lowercases s and reduces it to words separated by single spaces,
// without applying the rewrite table. Knowledge-base names and keywords are
// folded so they compare against normalized queries.
func Fold(s string) string {
	return clean(strings.ToLower(s))
}
