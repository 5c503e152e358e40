package captions

import (
	"captionsync/internal/align"
	"captionsync/internal/config"
	"captionsync/internal/cues"
	"captionsync/internal/services/whisperx"
)

// AlignerOptions maps the captions section onto aligner tuning.
func AlignerOptions(cfg *config.Config) align.Options {
	opts := align.DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.SimilarityThreshold = cfg.Captions.MatchSimilarityThreshold
	opts.LookaheadWindow = cfg.Captions.LookaheadWindow
	return opts
}

// EstimatorOptions maps the fallback section onto estimator pause weights.
func EstimatorOptions(cfg *config.Config) align.EstimatorOptions {
	opts := align.DefaultEstimatorOptions()
	if cfg == nil {
		return opts
	}
	opts.HardPauseWeight = cfg.Fallback.HardPauseWeight
	opts.SoftPauseWeight = cfg.Fallback.SoftPauseWeight
	return opts
}

// CueOptions returns grouping options; duration extends the final cue.
func CueOptions(cfg *config.Config, duration float64) cues.Options {
	opts := cues.DefaultOptions()
	opts.Duration = duration
	if cfg == nil {
		return opts
	}
	opts.MinWords = cfg.Captions.MinWords
	opts.MaxWords = cfg.Captions.MaxWords
	opts.MinGap = cfg.Captions.MinCueGap
	opts.HoldUntilNext = cfg.Captions.HoldUntilNext
	return opts
}

// NarrationOptionsFromConfig returns the text preparation switches.
func NarrationOptionsFromConfig(cfg *config.Config) NarrationOptions {
	if cfg == nil {
		return NarrationOptions{NarrateTitle: true, CleanStory: true}
	}
	return NarrationOptions{
		NarrateTitle: cfg.Captions.NarrateTitle,
		CleanStory:   cfg.Captions.CleanStory,
	}
}

// WhisperXConfig maps the recognizer section onto WhisperX settings.
func WhisperXConfig(cfg *config.Config) whisperx.Config {
	if cfg == nil {
		return whisperx.Config{Model: whisperx.DefaultModel, VADMethod: whisperx.VADMethodSilero}
	}
	return whisperx.Config{
		Model:       cfg.Recognizer.WhisperXModel,
		CUDAEnabled: cfg.Recognizer.CUDAEnabled,
		VADMethod:   cfg.Recognizer.VADMethod,
		HFToken:     cfg.Recognizer.HFToken,
		Language:    cfg.Recognizer.Language,
	}
}
