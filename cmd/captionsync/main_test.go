package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"captionsync/internal/config"
	"captionsync/internal/testsupport"
)

const ffprobeStub = `#!/bin/sh
echo '{"streams":[{"index":0,"codec_type":"audio"}],"format":{"duration":"2.000000"}}'
`

const dogStory = "The dog ran home fast."

const dogWords = `{"segments":[{"text":"the dog ran home fast","start":0,"end":1.5,"words":[
{"word":"the","start":0.0,"end":0.3},
{"word":"dog","start":0.3,"end":0.6},
{"word":"ran","start":0.6,"end":0.9},
{"word":"home","start":0.9,"end":1.2},
{"word":"fast","start":1.2,"end":1.5}]}]}`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffprobe", ffprobeStub),
		testsupport.WithStubbedBinaries("ffmpeg"),
	)
	base := testsupport.BaseDir(cfg)
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func (e *cliTestEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.baseDir, "inputs", name)
	testsupport.WriteText(t, path, content)
	return path
}

func TestConfigCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}

	out, err = runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[captions]")
	requireContains(t, out, "min_words = 2")
}

func TestExpandCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "expand", "I", "can't", "stop.")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if strings.TrimSpace(out) != "I can not stop." {
		t.Fatalf("expand output = %q", out)
	}

	out, err = runCLI(t, env, "expand", "--tokens", "I can't stop.")
	if err != nil {
		t.Fatalf("expand --tokens: %v", err)
	}
	requireContains(t, out, "expandable")
	requireContains(t, out, "can not")

	if _, err := runCLI(t, env, "expand"); err == nil {
		t.Fatal("expected error without text")
	}
}

func TestAlignCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	original := env.write(t, "original.txt", dogStory)
	words := env.write(t, "words.json", dogWords)

	out, err := runCLI(t, env, "align", "--original", original, "--words", words, "--duration", "2")
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, "1\n00:00:00,000 --> ")
	requireContains(t, out, "The dog ran")
	requireContains(t, out, "--> 00:00:02,000\nhome fast.")

	out, err = runCLI(t, env, "align", "--original", original, "--words", words, "--duration", "2", "--json")
	if err != nil {
		t.Fatalf("align --json: %v", err)
	}
	var report resultJSON
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if report.Source != "recognizer" || report.Stats.Matched != 5 || len(report.Cues) != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Cues[0].Spans[1].Raw != "dog" || report.Cues[0].Spans[1].Confidence != "matched" {
		t.Fatalf("unexpected span: %+v", report.Cues[0].Spans[1])
	}

	srt := filepath.Join(env.baseDir, "out", "aligned.srt")
	out, err = runCLI(t, env, "align", "--original", original, "--words", words, "--duration", "2", "--srt", srt)
	if err != nil {
		t.Fatalf("align --srt: %v", err)
	}
	requireContains(t, out, "Wrote 2 cues to "+srt)
	requireContains(t, out, "5/5 tokens matched")

	if _, err := runCLI(t, env, "align", "--original", original, "--words", words, "--duration", "0"); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestGenerateCommandEstimate(t *testing.T) {
	env := setupCLITestEnv(t)
	original := env.write(t, "original.txt", dogStory)
	audio := env.write(t, "narration.mp3", "audio")

	out, err := runCLI(t, env, "generate", "--original", original, "--audio", audio, "--force-estimate")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := filepath.Join(env.cfg.Paths.OutputDir, "narration.srt")
	requireContains(t, out, "Wrote 2 cues to "+want)
	requireContains(t, out, "estimator (forced)")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected srt at %s: %v", want, err)
	}

	missing := filepath.Join(env.baseDir, "missing.mp3")
	if _, err := runCLI(t, env, "generate", "--original", original, "--audio", missing); err == nil {
		t.Fatal("expected error for missing audio")
	}
}

func TestBatchCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	root := filepath.Join(env.baseDir, "stories")
	testsupport.WriteText(t, filepath.Join(root, "dog", "original.txt"), dogStory)
	testsupport.WriteText(t, filepath.Join(root, "dog", "audio.mp3"), "audio")
	testsupport.WriteText(t, filepath.Join(root, "cat", "original.txt"), "The cat sat down.")
	testsupport.WriteText(t, filepath.Join(root, "cat", "title.txt"), "Cat")
	testsupport.WriteText(t, filepath.Join(root, "cat", "audio.wav"), "audio")
	metricsPath := filepath.Join(env.baseDir, "metrics", "captionsync.prom")
	if err := os.MkdirAll(filepath.Dir(metricsPath), 0o755); err != nil {
		t.Fatalf("mkdir metrics dir: %v", err)
	}

	out, err := runCLI(t, env, "batch", root, "--force-estimate", "--metrics-file", metricsPath)
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, out)
	}
	requireContains(t, out, "dog")
	requireContains(t, out, "completed")
	requireContains(t, out, "2 ok")
	for _, name := range []string{"dog.srt", "cat.srt"} {
		if _, err := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	requireContains(t, string(data), `captionsync_jobs_total{source="estimator",status="completed"} 2`)

	out, err = runCLI(t, env, "batch", filepath.Join(env.baseDir, "inputs-none"))
	if err == nil {
		t.Fatalf("expected error for missing batch dir, got output %q", out)
	}
}

func TestCacheCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "cache", "list")
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, "Entries: 0")

	out, err = runCLI(t, env, "cache", "prune")
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "No cache entries pruned")

	out, err = runCLI(t, env, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed 0 cached transcripts")
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "FFprobe:")
	requireContains(t, out, "Work directory:")
	requireContains(t, out, "[OK]")
}
