package textutil

import (
	"strings"
	"unicode"
)

const maxSlugRunes = 60

// Slug converts a title or job name into a lowercase filesystem-safe token.
// Letters and digits are kept, every other run of characters becomes a single
// hyphen, and the result is capped at 60 runes. Returns fallback when nothing
// usable remains.
func Slug(value, fallback string) string {
	var b strings.Builder
	pendingDash := false
	count := 0
	for _, r := range Fold(strings.TrimSpace(value)) {
		if count >= maxSlugRunes {
			break
		}
		switch {
		case r == '\'':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
				count++
			}
			pendingDash = false
			b.WriteRune(r)
			count++
		default:
			pendingDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return fallback
	}
	return out
}
