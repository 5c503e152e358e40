package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateFallback(); err != nil {
		return err
	}
	if err := c.validateRecognizer(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCaptions() error {
	cfg := c.Captions
	if cfg.MinWords < 1 {
		return errors.New("captions.min_words must be at least 1")
	}
	if cfg.MaxWords < cfg.MinWords {
		return fmt.Errorf("captions.max_words (%d) must be >= captions.min_words (%d)", cfg.MaxWords, cfg.MinWords)
	}
	if err := ensureUnitInterval(map[string]float64{
		"captions.match_similarity_threshold":  cfg.MatchSimilarityThreshold,
		"captions.transcript_similarity_floor": cfg.TranscriptSimilarityFloor,
	}); err != nil {
		return err
	}
	if cfg.MinCueGap < 0 {
		return errors.New("captions.min_cue_gap must be >= 0")
	}
	if cfg.LookaheadWindow < 0 {
		return errors.New("captions.lookahead_window must be >= 0")
	}
	if cfg.SpeedMultiplier <= 0 {
		return errors.New("captions.speed_multiplier must be positive")
	}
	return nil
}

func (c *Config) validateFallback() error {
	if c.Fallback.HardPauseWeight < 0 {
		return errors.New("fallback.hard_pause_weight must be >= 0")
	}
	if c.Fallback.SoftPauseWeight < 0 {
		return errors.New("fallback.soft_pause_weight must be >= 0")
	}
	return nil
}

func (c *Config) validateRecognizer() error {
	switch c.Recognizer.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("recognizer.vad_method must be \"silero\" or \"pyannote\" (got %q)", c.Recognizer.VADMethod)
	}
	if c.Recognizer.VADMethod == "pyannote" && c.Recognizer.HFToken == "" {
		return errors.New("recognizer.hf_token must be set when recognizer.vad_method is pyannote (or set HF_TOKEN)")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.MaxAgeDays < 0 {
		return errors.New("cache.max_age_days must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

func ensureUnitInterval(values map[string]float64) error {
	for key, value := range values {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", key)
		}
	}
	return nil
}
