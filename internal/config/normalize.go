package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRecognizer()
	if err := c.normalizeBatch(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.work_dir", &c.Paths.WorkDir, defaultWorkDir},
		{"paths.output_dir", &c.Paths.OutputDir, defaultOutputDir},
		{"paths.cache_dir", &c.Paths.CacheDir, defaultCacheDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeRecognizer() {
	c.Recognizer.WhisperXModel = strings.TrimSpace(c.Recognizer.WhisperXModel)
	if c.Recognizer.WhisperXModel == "" {
		c.Recognizer.WhisperXModel = defaultWhisperXModel
	}
	c.Recognizer.VADMethod = strings.ToLower(strings.TrimSpace(c.Recognizer.VADMethod))
	if c.Recognizer.VADMethod == "" {
		c.Recognizer.VADMethod = defaultVADMethod
	}
	c.Recognizer.HFToken = strings.TrimSpace(c.Recognizer.HFToken)
	for _, name := range []string{"HUGGING_FACE_HUB_TOKEN", "HF_TOKEN"} {
		if c.Recognizer.HFToken != "" {
			break
		}
		c.Recognizer.HFToken = strings.TrimSpace(os.Getenv(name))
	}
	c.Recognizer.Language = strings.TrimSpace(c.Recognizer.Language)
	c.Recognizer.FFmpegBinary = strings.TrimSpace(c.Recognizer.FFmpegBinary)
	c.Recognizer.FFprobeBinary = strings.TrimSpace(c.Recognizer.FFprobeBinary)
}

func (c *Config) normalizeBatch() error {
	if c.Batch.MaxParallel <= 0 {
		c.Batch.MaxParallel = defaultBatchMaxParallel
	}
	c.Batch.MetricsFile = strings.TrimSpace(c.Batch.MetricsFile)
	if c.Batch.MetricsFile != "" {
		expanded, err := expandPath(c.Batch.MetricsFile)
		if err != nil {
			return fmt.Errorf("batch.metrics_file: %w", err)
		}
		c.Batch.MetricsFile = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
