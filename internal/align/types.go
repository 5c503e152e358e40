package align

import (
	"errors"

	"captionsync/internal/lexical"
)

var (
	// ErrNoRecognizedWords reports that the recognizer produced no words.
	// Spans are still returned (zero length at 0) so callers can choose to
	// fall back to the estimator.
	ErrNoRecognizedWords = errors.New("no recognized words")
	// ErrInvalidDuration reports a non-positive audio duration.
	ErrInvalidDuration = errors.New("invalid audio duration")
)

// RecognizedWord is one timestamped word from the speech recognizer.
type RecognizedWord struct {
	Surface  string
	Start    float64
	End      float64
	Position int
}

// Confidence records how a span's timing was obtained.
type Confidence int

const (
	Matched Confidence = iota
	Mismatched
	ExpansionFallback
	Dropped
	Interpolated
	Estimated
)

func (c Confidence) String() string {
	switch c {
	case Matched:
		return "matched"
	case Mismatched:
		return "mismatched"
	case ExpansionFallback:
		return "expansion_fallback"
	case Dropped:
		return "dropped"
	case Interpolated:
		return "interpolated"
	case Estimated:
		return "estimated"
	default:
		return "unknown"
	}
}

// TokenSpan is the time interval assigned to one original token.
type TokenSpan struct {
	Token      lexical.Token
	Start      float64
	End        float64
	Confidence Confidence
	// Words is the number of recognized words consumed for the token.
	Words int
}

// LowConfidence reports whether the span was not a clean match.
func (s TokenSpan) LowConfidence() bool {
	return s.Confidence != Matched
}

// Duration returns End - Start.
func (s TokenSpan) Duration() float64 {
	return s.End - s.Start
}

// Stats counts spans per confidence.
type Stats struct {
	Total             int
	Matched           int
	Mismatched        int
	ExpansionFallback int
	Dropped           int
	Interpolated      int
	Estimated         int
}

// LowConfidence returns the number of spans that were not clean matches.
func (s Stats) LowConfidence() int {
	return s.Total - s.Matched
}

// LowConfidenceRatio returns LowConfidence over Total, or 0 for no spans.
func (s Stats) LowConfidenceRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.LowConfidence()) / float64(s.Total)
}

// Summarize tallies spans by confidence.
func Summarize(spans []TokenSpan) Stats {
	stats := Stats{Total: len(spans)}
	for _, span := range spans {
		switch span.Confidence {
		case Matched:
			stats.Matched++
		case Mismatched:
			stats.Mismatched++
		case ExpansionFallback:
			stats.ExpansionFallback++
		case Dropped:
			stats.Dropped++
		case Interpolated:
			stats.Interpolated++
		case Estimated:
			stats.Estimated++
		}
	}
	return stats
}
