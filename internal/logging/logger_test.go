package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"captionsync/internal/config"
	"captionsync/internal/logging"
	"captionsync/internal/services"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(data)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg, "")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("configured logger")

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if !strings.Contains(content, "configured logger") {
		t.Fatalf("expected message in shared log, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")
	logger.Debug("hidden debug line")

	content := readLog(t, logPath)
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if strings.Contains(content, "hidden debug line") {
		t.Fatalf("debug line should be filtered at info level: %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with caller", logging.String("model_dir", "/tmp/models"))

	content := readLog(t, logPath)
	if !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
	if !strings.Contains(content, "model_dir: /tmp/models") {
		t.Fatalf("expected debug attrs rendered, got %q", content)
	}
}

func TestConsoleLoggerRendersJobSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithStage(services.WithJobID(context.Background(), "0123456789abcdef"), "align")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "captions")).Info(
		"captions generated",
		logging.Int("cue_count", 12),
		logging.Float64("low_confidence_ratio", 0.25),
		logging.Bool("cache_hit", true),
		logging.String("work_dir", "/tmp/work"),
	)

	content := readLog(t, logPath)
	for _, want := range []string{
		"[captions] Job 01234567 (align) – captions generated",
		"- Cues: 12",
		"- Low Confidence Share: 25.0%",
		"- Cache Hit: yes",
		"+ 1 more field hidden",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in console output:\n%s", want, content)
		}
	}
}

func TestJSONLoggerUsesStableKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}, SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRequestID(services.WithJobID(context.Background(), "job-9"), "req-3")
	logging.WithContext(ctx, logger).Warn("fallback used", logging.String("fallback_reason", "no_words"))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	checks := map[string]string{
		"level":                    "warn",
		"msg":                      "fallback used",
		logging.FieldJobID:         "job-9",
		logging.FieldCorrelationID: "req-3",
		logging.FieldSessionID:     "sess-1",
		"fallback_reason":          "no_words",
	}
	for key, want := range checks {
		if got, _ := entry[key].(string); got != want {
			t.Fatalf("entry[%q] = %q, want %q (entry %v)", key, got, want, entry)
		}
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatal("expected ts key")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "cache unavailable", "cache_open_failed", logging.String(logging.FieldImpact, "transcripts recomputed"))

	content := readLog(t, logPath)
	for _, want := range []string{`"event_type":"cache_open_failed"`, `"error_hint":"check logs for details"`, `"impact":"transcripts recomputed"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %s in %s", want, content)
		}
	}
}

func TestJobLoggerTeesIntoJobFile(t *testing.T) {
	dir := t.TempDir()
	sharedPath := filepath.Join(dir, "shared.log")
	base, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{sharedPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	jobLogger, closer, err := logging.NewJobLogger(base, dir, "abc123")
	if err != nil {
		t.Fatalf("NewJobLogger: %v", err)
	}
	jobLogger.Debug("debug only in job file")
	jobLogger.Info("job started")
	if err := closer.Close(); err != nil {
		t.Fatalf("close job log: %v", err)
	}

	jobContent := readLog(t, logging.JobLogPath(dir, "abc123"))
	if !strings.Contains(jobContent, "debug only in job file") || !strings.Contains(jobContent, `"job_id":"abc123"`) {
		t.Fatalf("unexpected job log: %s", jobContent)
	}
	shared := readLog(t, sharedPath)
	if strings.Contains(shared, "debug only in job file") {
		t.Fatalf("debug line leaked into shared log: %s", shared)
	}
	if !strings.Contains(shared, "job started") {
		t.Fatalf("expected info line in shared log: %s", shared)
	}

	if _, _, err := logging.NewJobLogger(base, dir, " "); err == nil {
		t.Fatal("expected error for empty job id")
	}
}

func TestCleanupOldLogsRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "job-old.log")
	fresh := filepath.Join(dir, "job-new.log")
	keep := filepath.Join(dir, "job-keep.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{stale, fresh, keep, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().AddDate(0, 0, -30)
	for _, path := range []string{stale, keep, other} {
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatal(err)
		}
	}

	removed := logging.CleanupOldLogs(logging.NewNop(), 7, logging.RetentionTarget{Dir: dir, Pattern: logging.JobLogPattern, Exclude: []string{keep}})
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale log removed, stat err=%v", err)
	}
	for _, path := range []string{fresh, keep, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to remain: %v", path, err)
		}
	}
}

func TestDecisionAttrsRenderOnConsole(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "decision.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("span source selected", logging.Args(logging.DecisionAttrs("span_source", "estimator", "no_words")...)...)

	content := readLog(t, logPath)
	for _, want := range []string{"- Decision: span_source", "- Result: estimator", "- Reason: no_words"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %s", want, content)
		}
	}
}
