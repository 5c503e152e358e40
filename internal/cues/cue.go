package cues

import (
	"fmt"

	"captionsync/internal/align"
)

const (
	DefaultMinWords = 2
	DefaultMaxWords = 3
	DefaultMinGap   = 0.05
)

// Cue is one displayed caption interval.
type Cue struct {
	Index     int
	Text      string
	Start     float64
	End       float64
	WordCount int
	Spans     []align.TokenSpan
}

// Duration returns End - Start.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// LowConfidence reports the number of covered spans that were not clean matches.
func (c Cue) LowConfidence() int {
	n := 0
	for _, span := range c.Spans {
		if span.LowConfidence() {
			n++
		}
	}
	return n
}

// Options controls grouping.
type Options struct {
	MinWords int
	MaxWords int
	// MinGap is the legibility gap kept between cues when HoldUntilNext
	// extends a cue toward its successor. Smaller gaps are left as-is.
	MinGap        float64
	HoldUntilNext bool
	// Duration, when positive, extends the final cue to the end of the audio.
	Duration float64
}

// DefaultOptions returns two-to-three word cues with no hold or extension.
func DefaultOptions() Options {
	return Options{
		MinWords: DefaultMinWords,
		MaxWords: DefaultMaxWords,
		MinGap:   DefaultMinGap,
	}
}

// Validate reports inconsistent options.
func (o Options) Validate() error {
	if o.MinWords < 1 {
		return fmt.Errorf("min words must be at least 1 (got %d)", o.MinWords)
	}
	if o.MaxWords < o.MinWords {
		return fmt.Errorf("max words %d must not be below min words %d", o.MaxWords, o.MinWords)
	}
	if o.MinGap < 0 {
		return fmt.Errorf("min gap must be non-negative (got %v)", o.MinGap)
	}
	return nil
}

func (o Options) normalized() Options {
	o.MinWords = max(o.MinWords, 1)
	o.MaxWords = max(o.MaxWords, o.MinWords)
	o.MinGap = max(o.MinGap, 0)
	return o
}
