// Package arabic provides text utilities for Arabic ledger content:
// normalization for search matching and tafqeet (amount-to-words) for
// statements.
package arabic

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// stripMarks removes combining marks, which covers the Arabic tashkeel
// (fatha, damma, kasra, shadda, sukun, tanween) without a hand-kept list.
var stripMarks = runes.Remove(runes.In(unicode.Mn))

// letterFolds collapses spelling variants that users treat as the same
// letter when searching.
var letterFolds = map[rune]rune{
	'أ': 'ا',
	'إ': 'ا',
	'آ': 'ا',
	'ٱ': 'ا',
	'ة': 'ه',
	'ى': 'ي',
}

// Normalize lowercases, strips diacritics and the tatweel filler, and folds
// alef/teh-marbuta/alef-maqsura variants. Two strings that normalize equal
// are considered the same text by search.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	folded, _, err := transform.String(stripMarks, s)
	if err == nil {
		s = folded
	}
	return strings.Map(func(r rune) rune {
		if r == 'ـ' { // tatweel
			return -1
		}
		if f, ok := letterFolds[r]; ok {
			return f
		}
		return r
	}, s)
}

// Contains reports whether haystack contains needle after normalization.
func Contains(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), Normalize(needle))
}
