package align

import (
	"fmt"
	"unicode/utf8"

	"captionsync/internal/lexical"
)

const (
	DefaultHardPauseWeight = 3.0
	DefaultSoftPauseWeight = 1.5
)

// EstimatorOptions weights pauses after punctuation, in characters.
type EstimatorOptions struct {
	HardPauseWeight float64
	SoftPauseWeight float64
}

// DefaultEstimatorOptions returns the stock pause weights.
func DefaultEstimatorOptions() EstimatorOptions {
	return EstimatorOptions{
		HardPauseWeight: DefaultHardPauseWeight,
		SoftPauseWeight: DefaultSoftPauseWeight,
	}
}

// Estimator allocates audio time by character weight when no usable
// recognizer output exists.
type Estimator struct {
	opts EstimatorOptions
}

// NewEstimator returns an estimator; negative weights are treated as zero.
func NewEstimator(opts EstimatorOptions) *Estimator {
	opts.HardPauseWeight = max(opts.HardPauseWeight, 0)
	opts.SoftPauseWeight = max(opts.SoftPauseWeight, 0)
	return &Estimator{opts: opts}
}

// Estimate spreads duration over tokens in proportion to surface length plus
// pause weight. Spans are contiguous, start at 0, and the last ends exactly at
// duration.
func (e *Estimator) Estimate(tokens []lexical.Token, duration float64) ([]TokenSpan, error) {
	if !(duration > 0) {
		return nil, fmt.Errorf("estimate spans: %w (%v)", ErrInvalidDuration, duration)
	}
	if len(tokens) == 0 {
		return []TokenSpan{}, nil
	}
	weights := make([]float64, len(tokens))
	var total float64
	for i, token := range tokens {
		weights[i] = e.weight(token)
		total += weights[i]
	}
	spans := make([]TokenSpan, len(tokens))
	var cumulative float64
	for i, token := range tokens {
		start := cumulative / total * duration
		cumulative += weights[i]
		spans[i] = TokenSpan{
			Token:      token,
			Start:      start,
			End:        cumulative / total * duration,
			Confidence: Estimated,
		}
	}
	spans[len(spans)-1].End = duration
	return spans, nil
}

func (e *Estimator) weight(token lexical.Token) float64 {
	w := float64(max(utf8.RuneCountInString(token.Surface), 1))
	switch token.Break {
	case lexical.BreakHard:
		w += e.opts.HardPauseWeight
	case lexical.BreakSoft:
		w += e.opts.SoftPauseWeight
	}
	return w
}
