package i18n

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize case-folds a term, trims it and strips diacritics,
// so "Elétrico" and "eletrico" compare equal.
func Normalize(term string) string {
	folded := strings.ToLower(strings.TrimSpace(term))
	// Chained transformers carry state, so build one per call.
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(stripAccents, folded)
	if err != nil {
		return folded
	}
	return result
}
