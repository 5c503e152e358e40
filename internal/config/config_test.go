package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"captionsync/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	t.Setenv("HF_TOKEN", "")
	chdir(t, t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "captionsync", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "captionsync", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "captions") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Captions.MinWords != 2 || cfg.Captions.MaxWords != 3 {
		t.Fatalf("unexpected word bounds: %d-%d", cfg.Captions.MinWords, cfg.Captions.MaxWords)
	}
	if cfg.Captions.MatchSimilarityThreshold != 0.6 {
		t.Fatalf("unexpected similarity threshold %v", cfg.Captions.MatchSimilarityThreshold)
	}
	if !cfg.Captions.HoldUntilNext {
		t.Fatal("expected hold_until_next enabled by default")
	}
	if cfg.Recognizer.VADMethod != "silero" {
		t.Fatalf("expected VAD default silero, got %q", cfg.Recognizer.VADMethod)
	}
	if cfg.Recognizer.HFToken != "" {
		t.Fatalf("expected empty token, got %q", cfg.Recognizer.HFToken)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if got := cfg.TranscriptCachePath(); got != filepath.Join(cfg.Paths.CacheDir, "transcripts.db") {
		t.Fatalf("unexpected cache path %q", got)
	}
	if cfg.FFmpegBinary() != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg default %q", cfg.FFmpegBinary())
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	t.Setenv("HF_TOKEN", "hf-from-env")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := struct {
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Captions struct {
			MinWords        int     `toml:"min_words"`
			MaxWords        int     `toml:"max_words"`
			SpeedMultiplier float64 `toml:"speed_multiplier"`
		} `toml:"captions"`
		Recognizer struct {
			VADMethod string `toml:"vad_method"`
		} `toml:"recognizer"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}{}
	payload.Paths.OutputDir = "~/subs"
	payload.Captions.MinWords = 3
	payload.Captions.MaxWords = 5
	payload.Captions.SpeedMultiplier = 1.25
	payload.Recognizer.VADMethod = " Pyannote "
	payload.Logging.Format = "JSON"
	payload.Logging.Level = "DEBUG"

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected existing config at %q, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "subs") {
		t.Fatalf("unexpected output dir %q", cfg.Paths.OutputDir)
	}
	if cfg.Captions.MinWords != 3 || cfg.Captions.MaxWords != 5 {
		t.Fatalf("unexpected word bounds %d-%d", cfg.Captions.MinWords, cfg.Captions.MaxWords)
	}
	if cfg.Captions.SpeedMultiplier != 1.25 {
		t.Fatalf("unexpected speed multiplier %v", cfg.Captions.SpeedMultiplier)
	}
	if cfg.Recognizer.VADMethod != "pyannote" {
		t.Fatalf("expected normalized VAD method, got %q", cfg.Recognizer.VADMethod)
	}
	if cfg.Recognizer.HFToken != "hf-from-env" {
		t.Fatalf("expected token from HF_TOKEN, got %q", cfg.Recognizer.HFToken)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.Captions.MatchSimilarityThreshold != 0.6 {
		t.Fatalf("expected untouched default threshold, got %v", cfg.Captions.MatchSimilarityThreshold)
	}
}

func TestLoadTokenEnvironmentFallback(t *testing.T) {
	tests := []struct {
		name   string
		hubEnv string
		hfEnv  string
		inFile string
		want   string
	}{
		{name: "hub token wins", hubEnv: "hub-token", hfEnv: "hf-token", want: "hub-token"},
		{name: "blank hub token falls through", hubEnv: "   ", hfEnv: "hf-token", want: "hf-token"},
		{name: "config file wins", hubEnv: "hub-token", hfEnv: "hf-token", inFile: "file-token", want: "file-token"},
		{name: "nothing set", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv("HUGGING_FACE_HUB_TOKEN", tc.hubEnv)
			t.Setenv("HF_TOKEN", tc.hfEnv)
			configPath := filepath.Join(t.TempDir(), "config.toml")
			body := fmt.Sprintf("[recognizer]\nhf_token = %q\n", tc.inFile)
			if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, _, _, err := config.Load(configPath)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if cfg.Recognizer.HFToken != tc.want {
				t.Fatalf("HFToken = %q, want %q", cfg.Recognizer.HFToken, tc.want)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[captions]\nwords_per_cue = 4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestLoadPrefersProjectConfigWhenDefaultMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	chdir(t, project)
	if err := os.WriteFile("captionsync.toml", []byte("[captions]\nmax_words = 4\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "captionsync.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Captions.MaxWords != 4 {
		t.Fatalf("expected max_words 4, got %d", cfg.Captions.MaxWords)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"min words", func(c *config.Config) { c.Captions.MinWords = 0 }, "captions.min_words"},
		{"max below min", func(c *config.Config) { c.Captions.MaxWords = 1 }, "captions.max_words"},
		{"threshold range", func(c *config.Config) { c.Captions.MatchSimilarityThreshold = 1.5 }, "captions.match_similarity_threshold"},
		{"floor range", func(c *config.Config) { c.Captions.TranscriptSimilarityFloor = -0.1 }, "captions.transcript_similarity_floor"},
		{"gap", func(c *config.Config) { c.Captions.MinCueGap = -1 }, "captions.min_cue_gap"},
		{"lookahead", func(c *config.Config) { c.Captions.LookaheadWindow = -1 }, "captions.lookahead_window"},
		{"speed", func(c *config.Config) { c.Captions.SpeedMultiplier = 0 }, "captions.speed_multiplier"},
		{"pause weight", func(c *config.Config) { c.Fallback.HardPauseWeight = -2 }, "fallback.hard_pause_weight"},
		{"vad", func(c *config.Config) { c.Recognizer.VADMethod = "webrtc" }, "recognizer.vad_method"},
		{"pyannote token", func(c *config.Config) { c.Recognizer.VADMethod = "pyannote" }, "recognizer.hf_token"},
		{"cache age", func(c *config.Config) { c.Cache.MaxAgeDays = -1 }, "cache.max_age_days"},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"log retention", func(c *config.Config) { c.Logging.RetentionDays = -3 }, "logging.retention_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestCreateSampleWritesLoadableConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Batch.MaxParallel != 2 {
		t.Fatalf("unexpected batch parallelism %d", cfg.Batch.MaxParallel)
	}
}

func TestEnsureDirectoriesCreatesPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.OutputDir, cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}

func TestMarshalRedactsToken(t *testing.T) {
	cfg := config.Default()
	cfg.Recognizer.HFToken = "secret-token"
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "secret-token") {
		t.Fatalf("token leaked in output: %s", data)
	}
	if cfg.Recognizer.HFToken != "secret-token" {
		t.Fatal("Marshal must not mutate the receiver")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
