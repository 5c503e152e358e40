package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"captionsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
	pathSet bool
}

// NewConfig produces a config seeded with unique temp directories per test.
// Directories are created so preflight checks pass.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Recognizer.HFToken = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithCacheDisabled turns the transcript cache off.
func WithCacheDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = false
	}
}

// WithCaptions mutates the caption section.
func WithCaptions(fn func(*config.Captions)) ConfigOption {
	return func(b *configBuilder) {
		fn(&b.cfg.Captions)
	}
}

// WithStubbedBinaries writes stub executables that exit 0 for the provided
// names and prepends them to PATH. If names is empty, ffmpeg, ffprobe, and
// uvx are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "uvx"}
		}
		for _, name := range names {
			WriteStub(b.t, b.binDir(), name, "#!/bin/sh\nexit 0\n")
		}
		b.prependPath()
	}
}

// WithStubScript installs a stub executable with a custom shell body.
func WithStubScript(name, script string) ConfigOption {
	return func(b *configBuilder) {
		WriteStub(b.t, b.binDir(), name, script)
		b.prependPath()
	}
}

func (b *configBuilder) binDir() string {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	return binDir
}

func (b *configBuilder) prependPath() {
	if b.pathSet {
		return
	}
	b.pathSet = true
	b.t.Setenv("PATH", b.binDir()+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
