package lexical

import "strings"

// Break is the phrase boundary signalled after a token.
type Break int

const (
	BreakNone Break = iota
	BreakSoft
	BreakHard
)

func (b Break) String() string {
	switch b {
	case BreakSoft:
		return "soft"
	case BreakHard:
		return "hard"
	default:
		return "none"
	}
}

// Kind distinguishes tokens spoken as written from tokens with a known
// multi-word pronunciation.
type Kind int

const (
	Plain Kind = iota
	Expandable
)

func (k Kind) String() string {
	if k == Expandable {
		return "expandable"
	}
	return "plain"
}

// Token is one word of narration text.
type Token struct {
	// Raw is the display form including surrounding punctuation.
	Raw string
	// Surface is the folded, punctuation-stripped comparison form.
	Surface  string
	Position int
	Break    Break
	Kind     Kind
	// Expansion lists the spoken words for Expandable tokens.
	Expansion []string
}

// IsExpandable reports whether the token carries an expansion.
func (t Token) IsExpandable() bool {
	return t.Kind == Expandable && len(t.Expansion) > 0
}

// Text joins the raw forms of tokens with single spaces.
func Text(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, token := range tokens {
		parts[i] = token.Raw
	}
	return strings.Join(parts, " ")
}
