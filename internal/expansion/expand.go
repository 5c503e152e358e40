package expansion

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"captionsync/internal/textutil"
)

// ExpandText rewrites text into the form handed to the speech synthesizer.
// Every whitespace-delimited word found in the table is replaced by its spoken
// tokens; surrounding punctuation is preserved and a capitalized word keeps a
// capitalized first token when the word opens a sentence or is mixed case
// ("He's"). Whitespace collapses to single spaces.
func ExpandText(text string, table *Table) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	titleCaser := cases.Title(language.English)
	out := make([]string, 0, len(words))
	sentenceStart := true
	for _, word := range words {
		lead, core, trail := textutil.SplitAffixes(textutil.NormalizeApostrophes(word))
		opensSentence := sentenceStart
		sentenceStart = strings.ContainsAny(trail, ".!?…")
		tokens, ok := table.Lookup(core)
		if !ok {
			out = append(out, word)
			continue
		}
		for i, token := range tokens {
			if token == "i" {
				tokens[i] = "I"
			}
		}
		if startsUpper(core) && !isAgeTag(core) && (opensSentence || !isAllUpper(core)) {
			tokens[0] = titleCaser.String(tokens[0])
		}
		out = append(out, lead+strings.Join(tokens, " ")+trail)
	}
	return strings.Join(out, " ")
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func isAgeTag(s string) bool {
	return ageTagPattern.MatchString(s)
}

func isAllUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}
