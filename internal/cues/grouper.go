package cues

import (
	"captionsync/internal/align"
	"captionsync/internal/lexical"
)

// Group partitions spans into cues in order. Invalid options are clamped to
// the nearest usable values.
func Group(spans []align.TokenSpan, opts Options) []Cue {
	if len(spans) == 0 {
		return nil
	}
	opts = opts.normalized()

	var out []Cue
	start := 0
	for i, span := range spans {
		size := i - start + 1
		if size >= opts.MaxWords || (size >= opts.MinWords && span.Token.Break != lexical.BreakNone) {
			out = append(out, newCue(len(out)+1, spans[start:i+1]))
			start = i + 1
		}
	}
	if start < len(spans) {
		out = append(out, newCue(len(out)+1, spans[start:]))
	}

	if opts.HoldUntilNext {
		holdUntilNext(out, opts.MinGap)
	}
	if last := &out[len(out)-1]; opts.Duration > last.End {
		last.End = opts.Duration
	}
	return out
}

func newCue(index int, spans []align.TokenSpan) Cue {
	tokens := make([]lexical.Token, len(spans))
	for i, span := range spans {
		tokens[i] = span.Token
	}
	return Cue{
		Index:     index,
		Text:      lexical.Text(tokens),
		Start:     spans[0].Start,
		End:       spans[len(spans)-1].End,
		WordCount: len(spans),
		Spans:     spans,
	}
}

// holdUntilNext keeps each cue on screen until MinGap before its successor.
func holdUntilNext(cues []Cue, minGap float64) {
	for i := 0; i+1 < len(cues); i++ {
		if cues[i+1].Start-cues[i].End > minGap {
			cues[i].End = cues[i+1].Start - minGap
		}
	}
}

// Scale divides every timestamp by multiplier, for captions applied to audio
// that was sped up after alignment. Multipliers <= 0 return an unchanged copy.
func Scale(cues []Cue, multiplier float64) []Cue {
	out := make([]Cue, len(cues))
	copy(out, cues)
	if multiplier <= 0 || multiplier == 1 {
		return out
	}
	for i := range out {
		out[i].Start /= multiplier
		out[i].End /= multiplier
	}
	return out
}
