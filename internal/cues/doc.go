// Package cues groups aligned token spans into caption cues and reads and
// writes them as SubRip (SRT) text.
//
// Group closes a cue once it reaches the maximum word count, or the minimum
// word count at a token followed by clause or sentence punctuation. The last
// group is always emitted so no token is ever dropped. Cue text is built from
// the original token display forms, not the expanded narration.
package cues
