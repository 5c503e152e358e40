package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var apostropheReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"ʼ", "'",
	"`", "'",
)

// Fold returns the comparison form of s: NFKC-normalized, apostrophes unified
// to ASCII, and Unicode case-folded.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = apostropheReplacer.Replace(s)
	return cases.Fold().String(s)
}

// NormalizeApostrophes rewrites typographic apostrophes to ASCII without
// touching case.
func NormalizeApostrophes(s string) string {
	return apostropheReplacer.Replace(s)
}

// SplitAffixes separates leading and trailing punctuation from the core of a
// whitespace-delimited word. Interior punctuation (he's, 9:30) stays in the core.
// A word made only of punctuation returns an empty core with everything in lead.
func SplitAffixes(word string) (lead, core, trail string) {
	runes := []rune(word)
	start := 0
	for start < len(runes) && isAffix(runes[start]) {
		start++
	}
	if start == len(runes) {
		return word, "", ""
	}
	end := len(runes)
	for end > start && isAffix(runes[end-1]) {
		end--
	}
	return string(runes[:start]), string(runes[start:end]), string(runes[end:])
}

// StripApostrophes removes every apostrophe so collapsed recognizer output
// ("hes") can be compared against a contraction ("he's").
func StripApostrophes(s string) string {
	return strings.ReplaceAll(NormalizeApostrophes(s), "'", "")
}

// ComparisonForm folds a word and removes its outer punctuation.
func ComparisonForm(word string) string {
	_, core, _ := SplitAffixes(NormalizeApostrophes(strings.TrimSpace(word)))
	return Fold(core)
}

func isAffix(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
