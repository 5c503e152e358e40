package lexical

import (
	"strings"

	"captionsync/internal/expansion"
	"captionsync/internal/textutil"
)

const (
	hardBreakRunes = ".!?…"
	softBreakRunes = ",;:—–"
)

// Result holds the token streams for the original and expanded narration.
type Result struct {
	Original []Token
	Expanded []Token
}

// Normalize tokenizes both texts. Original tokens found in table are marked
// Expandable. A nil table classifies every token as Plain.
func Normalize(original, expanded string, table *expansion.Table) Result {
	return Result{
		Original: tokenize(original, table),
		Expanded: tokenize(expanded, nil),
	}
}

// Tokenize splits text into Plain tokens.
func Tokenize(text string) []Token {
	return tokenize(text, nil)
}

func tokenize(text string, table *expansion.Table) []Token {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	tokens := make([]Token, 0, len(words))
	pendingLead := ""
	for _, word := range words {
		lead, core, trail := textutil.SplitAffixes(textutil.NormalizeApostrophes(word))
		if core == "" {
			// Punctuation-only words attach to the neighbouring token.
			if n := len(tokens); n > 0 {
				tokens[n-1].Raw += " " + word
				tokens[n-1].Break = max(tokens[n-1].Break, breakFor(lead))
			} else {
				pendingLead += word + " "
			}
			continue
		}
		token := Token{
			Raw:      pendingLead + word,
			Surface:  textutil.Fold(core),
			Position: len(tokens),
			Break:    breakFor(trail),
		}
		pendingLead = ""
		if table != nil {
			if spoken, ok := table.Lookup(core); ok {
				token.Kind = Expandable
				token.Expansion = spoken
			}
		}
		tokens = append(tokens, token)
	}
	if pendingLead != "" {
		// Text was nothing but punctuation.
		return nil
	}
	return tokens
}

func breakFor(punct string) Break {
	switch {
	case strings.ContainsAny(punct, hardBreakRunes):
		return BreakHard
	case strings.ContainsAny(punct, softBreakRunes):
		return BreakSoft
	default:
		return BreakNone
	}
}
