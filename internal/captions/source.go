package captions

import (
	"errors"

	"captionsync/internal/align"
	"captionsync/internal/textutil"
)

// Reasons the estimator replaced the aligner.
const (
	FallbackForced           = "forced"
	FallbackNoWords          = "no_words"
	FallbackLowSimilarity    = "low_similarity"
	FallbackRecognizerFailed = "recognizer_failed"
	FallbackNoRecognizer     = "no_recognizer"
)

type sourceDecision struct {
	source     align.SpanSource
	reason     string
	similarity float64
}

// chooseSource picks the aligner when the transcript plausibly covers the
// narration, and the estimator otherwise. recognizerErr is the transcription
// failure, if any.
func (s *Service) chooseSource(narration Narration, transcript Transcript, duration float64, forced bool, recognizerErr error) sourceDecision {
	estimator := align.EstimatorSource{
		Estimator: align.NewEstimator(EstimatorOptions(s.cfg)),
		Duration:  duration,
	}
	switch {
	case forced:
		return sourceDecision{source: estimator, reason: FallbackForced}
	case errors.Is(recognizerErr, errRecognizerUnavailable):
		return sourceDecision{source: estimator, reason: FallbackNoRecognizer}
	case recognizerErr != nil:
		return sourceDecision{source: estimator, reason: FallbackRecognizerFailed}
	case len(transcript.Words) == 0:
		return sourceDecision{source: estimator, reason: FallbackNoWords}
	}

	similarity := textutil.CosineSimilarity(
		textutil.NewFingerprint(narration.Expanded),
		textutil.NewFingerprint(transcript.text()),
	)
	if similarity < s.similarityFloor() {
		return sourceDecision{source: estimator, reason: FallbackLowSimilarity, similarity: similarity}
	}
	return sourceDecision{
		source: align.RecognizerSource{
			Aligner:  align.New(AlignerOptions(s.cfg)),
			Words:    transcript.Words,
			Duration: duration,
		},
		similarity: similarity,
	}
}

func (s *Service) similarityFloor() float64 {
	if s.cfg == nil {
		return 0
	}
	return s.cfg.Captions.TranscriptSimilarityFloor
}
