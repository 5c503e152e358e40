package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"captionsync/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	OutputDir string `toml:"output_dir"`
	CacheDir  string `toml:"cache_dir"`
	LogDir    string `toml:"log_dir"`
}

// Captions controls alignment and cue grouping.
type Captions struct {
	MinWords                 int     `toml:"min_words"`
	MaxWords                 int     `toml:"max_words"`
	MatchSimilarityThreshold float64 `toml:"match_similarity_threshold"`
	MinCueGap                float64 `toml:"min_cue_gap"`
	HoldUntilNext            bool    `toml:"hold_until_next"`
	LookaheadWindow          int     `toml:"lookahead_window"`
	// TranscriptSimilarityFloor is the cosine similarity between expanded
	// narration and recognizer text below which the estimator is used instead.
	TranscriptSimilarityFloor float64 `toml:"transcript_similarity_floor"`
	SpeedMultiplier           float64 `toml:"speed_multiplier"`
	NarrateTitle              bool    `toml:"narrate_title"`
	CleanStory                bool    `toml:"clean_story"`
}

// Fallback weights pauses for the duration-only estimator.
type Fallback struct {
	HardPauseWeight float64 `toml:"hard_pause_weight"`
	SoftPauseWeight float64 `toml:"soft_pause_weight"`
}

// Recognizer contains WhisperX and media tool settings.
type Recognizer struct {
	WhisperXModel string `toml:"whisperx_model"`
	CUDAEnabled   bool   `toml:"cuda_enabled"`
	VADMethod     string `toml:"vad_method"`
	HFToken       string `toml:"hf_token"`
	Language      string `toml:"language"`
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Cache controls the transcript cache.
type Cache struct {
	Enabled    bool `toml:"enabled"`
	MaxAgeDays int  `toml:"max_age_days"`
}

// Batch controls directory batch runs.
type Batch struct {
	MaxParallel int    `toml:"max_parallel"`
	MetricsFile string `toml:"metrics_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for captionsync.
//
// Configuration sections by subsystem:
//   - Paths: work, output, cache, and log directories
//   - Captions: cue grouping and alignment tolerances
//   - Fallback: pause weights for duration-only estimation
//   - Recognizer: WhisperX model, device, VAD, and media binaries
//   - Cache: transcript cache toggle and retention
//   - Batch: concurrency and metrics export
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Captions   Captions   `toml:"captions"`
	Fallback   Fallback   `toml:"fallback"`
	Recognizer Recognizer `toml:"recognizer"`
	Cache      Cache      `toml:"cache"`
	Batch      Batch      `toml:"batch"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories jobs write into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir}
	if c.Cache.Enabled {
		dirs = append(dirs, c.Paths.CacheDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TranscriptCachePath returns the SQLite file backing the transcript cache.
func (c *Config) TranscriptCachePath() string {
	return filepath.Join(c.Paths.CacheDir, transcriptCacheFile)
}

// FFmpegBinary returns the ffmpeg executable used for audio extraction.
func (c *Config) FFmpegBinary() string {
	if c.Recognizer.FFmpegBinary != "" {
		return c.Recognizer.FFmpegBinary
	}
	return "ffmpeg"
}

// FFprobeBinary returns the configured ffprobe executable, or "" to let the
// caller resolve one next to ffmpeg.
func (c *Config) FFprobeBinary() string {
	return c.Recognizer.FFprobeBinary
}

// Marshal renders the effective configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	redacted := *c
	if redacted.Recognizer.HFToken != "" {
		redacted.Recognizer.HFToken = "********"
	}
	data, err := toml.Marshal(redacted)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
