package align

import "captionsync/internal/lexical"

// SpanSource produces one span per token from some timing source.
type SpanSource interface {
	Name() string
	Spans(tokens []lexical.Token) ([]TokenSpan, error)
}

// RecognizerSource times tokens from recognized words.
type RecognizerSource struct {
	Aligner  *Aligner
	Words    []RecognizedWord
	Duration float64
}

func (s RecognizerSource) Name() string { return "recognizer" }

// Spans aligns tokens. ErrNoRecognizedWords is returned with the
// zero-length spans.
func (s RecognizerSource) Spans(tokens []lexical.Token) ([]TokenSpan, error) {
	aligner := s.Aligner
	if aligner == nil {
		aligner = New(DefaultOptions())
	}
	alignment, err := aligner.Align(tokens, s.Words, s.Duration)
	return alignment.Spans, err
}

// EstimatorSource times tokens from the audio duration alone.
type EstimatorSource struct {
	Estimator *Estimator
	Duration  float64
}

func (s EstimatorSource) Name() string { return "estimator" }

func (s EstimatorSource) Spans(tokens []lexical.Token) ([]TokenSpan, error) {
	estimator := s.Estimator
	if estimator == nil {
		estimator = NewEstimator(DefaultEstimatorOptions())
	}
	return estimator.Estimate(tokens, s.Duration)
}
