package captions

import (
	"strings"

	"captionsync/internal/expansion"
	"captionsync/internal/textutil"
)

// NarrationOptions controls how story text is prepared before alignment.
type NarrationOptions struct {
	// NarrateTitle prepends the title as its own sentence, matching TTS
	// scripts that read the title first.
	NarrateTitle bool
	// CleanStory strips scraped-post boilerplate from the displayed text.
	CleanStory bool
}

// Narration is the displayed text and the text the TTS engine actually spoke.
type Narration struct {
	Original string
	Expanded string
}

// PrepareNarration builds the original and expanded narration for a story.
// An empty expanded falls back to expanding original with table. A supplied
// expanded text is used as-is; only the narrated title is expanded for it.
func PrepareNarration(title, original, expanded string, opts NarrationOptions, table *expansion.Table) Narration {
	original = strings.TrimSpace(original)
	if opts.CleanStory {
		original = textutil.CleanStory(original)
	}
	expanded = strings.TrimSpace(expanded)
	title = strings.Join(strings.Fields(title), " ")

	var heading string
	if opts.NarrateTitle && title != "" {
		heading = sentence(title)
	}

	if expanded == "" {
		combined := joinNonEmpty(heading, original)
		return Narration{
			Original: combined,
			Expanded: expansion.ExpandText(combined, table),
		}
	}

	var spokenHeading string
	if heading != "" {
		spokenHeading = expansion.ExpandText(heading, table)
	}
	return Narration{
		Original: joinNonEmpty(heading, original),
		Expanded: joinNonEmpty(spokenHeading, expanded),
	}
}

func sentence(text string) string {
	if text == "" {
		return ""
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return text
	}
	if strings.HasSuffix(text, "…") {
		return text
	}
	return text + "."
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}
