package expansion

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"captionsync/internal/textutil"
)

// Entry maps a surface form to its spoken token sequence.
type Entry struct {
	Surface string
	Tokens  []string
	// CaseSensitive entries only match the exact surface ("SO" but not "so").
	CaseSensitive bool
}

// Table is an immutable surface → expansion mapping.
type Table struct {
	exact  map[string][]string
	folded map[string][]string
}

var ageTagPattern = regexp.MustCompile(`^(\d{1,2})([MFmf])$`)

// New validates entries and builds a table. Surfaces are unique after folding
// for case-insensitive entries and exactly for case-sensitive ones.
func New(entries []Entry) (*Table, error) {
	t := &Table{
		exact:  make(map[string][]string),
		folded: make(map[string][]string),
	}
	for i, entry := range entries {
		surface := strings.TrimSpace(textutil.NormalizeApostrophes(entry.Surface))
		if surface == "" {
			return nil, fmt.Errorf("expansion entry %d: empty surface", i)
		}
		if len(entry.Tokens) == 0 {
			return nil, fmt.Errorf("expansion entry %q: no tokens", entry.Surface)
		}
		tokens := make([]string, 0, len(entry.Tokens))
		for _, token := range entry.Tokens {
			token = textutil.Fold(strings.TrimSpace(token))
			if token == "" || strings.ContainsFunc(token, isSpace) {
				return nil, fmt.Errorf("expansion entry %q: invalid token %q", entry.Surface, token)
			}
			tokens = append(tokens, token)
		}
		target := t.folded
		key := textutil.Fold(surface)
		if entry.CaseSensitive {
			target = t.exact
			key = surface
		}
		if _, dup := target[key]; dup {
			return nil, fmt.Errorf("expansion entry %q: duplicate surface", entry.Surface)
		}
		target[key] = tokens
	}
	return t, nil
}

// Default returns the built-in table. It is constructed on first use.
var Default = sync.OnceValue(func() *Table {
	table, err := New(builtinEntries())
	if err != nil {
		panic(fmt.Sprintf("expansion: builtin table invalid: %v", err))
	}
	return table
})

// Lookup returns the expansion for a punctuation-stripped word in its original
// case. The returned slice is a copy.
func (t *Table) Lookup(word string) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	word = textutil.NormalizeApostrophes(strings.TrimSpace(word))
	if word == "" {
		return nil, false
	}
	if tokens, ok := t.exact[word]; ok {
		return slices.Clone(tokens), true
	}
	if tokens, ok := t.folded[textutil.Fold(word)]; ok {
		return slices.Clone(tokens), true
	}
	if match := ageTagPattern.FindStringSubmatch(word); match != nil {
		age, _ := strconv.Atoi(match[1])
		return append(NumberWords(age), strings.ToLower(match[2])), true
	}
	if n, err := strconv.Atoi(word); err == nil && n >= 0 && n <= maxSpelledNumber && !strings.HasPrefix(word, "+") {
		return NumberWords(n), true
	}
	return nil, false
}

// Len reports the number of static entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.exact) + len(t.folded)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
