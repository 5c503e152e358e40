package textutil

import (
	"regexp"
	"strings"
)

var (
	originalPostPattern = regexp.MustCompile(`(?i)Original post here: ?\\?\\?\[.*?\]\(.*?\)`)
	editTailPattern     = regexp.MustCompile(`(?is)\bEdit:.*`)
	tldrTailPattern     = regexp.MustCompile(`(?is)\bTL;DR:.*`)
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+`)
	emphasisPattern     = regexp.MustCompile(`\*\*|__|\*|_`)
)

// CleanStory strips scraped-post boilerplate before narration: "Original post
// here" links, everything after "Edit:" or "TL;DR:", markdown link syntax,
// bare URLs, and emphasis markers. Whitespace collapses to single spaces and
// double quotes become single quotes.
func CleanStory(text string) string {
	text = originalPostPattern.ReplaceAllString(text, "")
	text = editTailPattern.ReplaceAllString(text, "")
	text = tldrTailPattern.ReplaceAllString(text, "")
	text = markdownLinkPattern.ReplaceAllString(text, "$1")
	text = urlPattern.ReplaceAllString(text, "")
	text = emphasisPattern.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, `"`, "'")
	return strings.TrimSpace(text)
}
