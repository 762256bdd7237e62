package fuzzy

import (
	"strings"

	"github.com/xrash/smetrics"
)

// Distance returns the smallest number of single-rune edits (insertions,
// deletions, substitutions) that turn pattern into some substring of text.
// The match may start anywhere in text; no position is favored.
// Comparison is case-insensitive.
func Distance(pattern, text string) int {
	return substringDistance([]rune(strings.ToLower(pattern)), []rune(strings.ToLower(text)))
}

// Score normalizes Distance by the pattern length, giving a value in [0,1]
// where 0 is an exact (substring) match and 1 means nothing in common.
// An empty pattern scores 0 against anything.
func Score(pattern, text string) float64 {
	p := []rune(strings.ToLower(pattern))
	if len(p) == 0 {
		return 0
	}
	d := substringDistance(p, []rune(strings.ToLower(text)))
	return float64(d) / float64(len(p))
}

// WholeDistance is the plain Levenshtein distance between the two
// lower-cased strings, with unit costs.
func WholeDistance(a, b string) int {
	return smetrics.WagnerFischer(strings.ToLower(a), strings.ToLower(b), 1, 1, 1)
}

// WholeScore normalizes WholeDistance by the longer of the two strings.
func WholeScore(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 0
	}
	return float64(WholeDistance(a, b)) / float64(longest)
}

// substringDistance is the Sellers variant of the edit distance table:
// the first row is all zeros so the pattern may begin at any offset in text,
// and the answer is the minimum of the last row so it may end anywhere.
func substringDistance(pattern, text []rune) int {
	m := len(pattern)
	if m == 0 {
		return 0
	}

	prev := make([]int, len(text)+1)
	curr := make([]int, len(text)+1)

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= len(text); j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // drop a pattern rune
				curr[j-1]+1,    // skip a text rune
				prev[j-1]+cost, // match or substitute
			)
		}
		prev, curr = curr, prev
	}

	best := m
	for _, d := range prev {
		best = min(best, d)
	}
	return best
}
