package fuzzy

import "strings"

// TypoThreshold is the largest edit distance still treated as a typo.
const TypoThreshold = 3

// Distance computes the Levenshtein edit distance between a and b.
// Inputs are compared byte-wise; callers pass normalized ASCII text.
func Distance(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// Near reports whether a and b are within TypoThreshold edits.
func Near(a, b string) bool {
	if abs(len(a)-len(b)) > TypoThreshold {
		return false
	}
	return Distance(a, b) <= TypoThreshold
}

// NearAny reports whether token is within TypoThreshold of any word.
func NearAny(token string, words []string) bool {
	for _, w := range words {
		if Near(token, w) {
			return true
		}
	}
	return false
}

// OverlapScore scores tokens against keywords: +2 per exact pair, +1 per
// pair within TypoThreshold, normalized by the keyword count.
func OverlapScore(tokens, keywords []string) float64 {
	score := 0
	for _, t := range tokens {
		for _, k := range keywords {
			if t == k {
				score += 2
			} else if Near(t, k) {
				score++
			}
		}
	}
	return float64(score) / float64(max(len(keywords), 1))
}

// ClosestMatch returns the vocabulary entry whose words overlap tokens the
// most. Earlier entries win ties. The score is 0 for an empty vocabulary.
func ClosestMatch(tokens, vocabulary []string) (string, float64) {
	i, score := ClosestIndex(tokens, vocabulary)
	if i < 0 {
		return "", 0
	}
	return vocabulary[i], score
}

// ClosestIndex is ClosestMatch returning the entry's index, or -1 for an
// empty vocabulary.
func ClosestIndex(tokens, vocabulary []string) (int, float64) {
	best := -1
	bestScore := 0.0
	for i, entry := range vocabulary {
		score := OverlapScore(tokens, strings.Fields(entry))
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best, bestScore
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
