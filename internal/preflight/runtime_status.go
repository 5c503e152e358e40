package preflight

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"captionsync/internal/config"
)

const recognizerProbeTimeout = 5 * time.Second

// CheckRecognizerRuntime reports whether the WhisperX runner can be launched.
// A missing runner is not fatal because jobs fall back to duration estimates,
// so the result passes with a warning detail.
func CheckRecognizerRuntime(ctx context.Context, cfg *config.Config) Result {
	const name = "Recognizer"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	probe := ProbeRunner(ctx, "uvx")
	if !probe.Found {
		return Result{Name: name, Passed: true, Detail: "uvx not found (captions will use duration estimates)"}
	}
	device := "cpu"
	if cfg.Recognizer.CUDAEnabled {
		device = "cuda"
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s via %s (%s, vad=%s)", cfg.Recognizer.WhisperXModel, probe.Detail(), device, cfg.Recognizer.VADMethod),
	}
}

// RunnerProbe reports the availability and version of a runner binary.
type RunnerProbe struct {
	Found   bool
	Command string
	Version string
}

// ProbeRunner resolves command on PATH and asks it for a version string.
func ProbeRunner(ctx context.Context, command string) RunnerProbe {
	command = strings.TrimSpace(command)
	path, err := exec.LookPath(command)
	if err != nil {
		return RunnerProbe{Command: command}
	}

	probeCtx, cancel := context.WithTimeout(ctx, recognizerProbeTimeout)
	defer cancel()

	output, err := exec.CommandContext(probeCtx, path, "--version").Output()
	if err != nil {
		return RunnerProbe{Found: true, Command: path}
	}
	version := strings.TrimSpace(string(output))
	if line, _, ok := strings.Cut(version, "\n"); ok {
		version = strings.TrimSpace(line)
	}
	return RunnerProbe{Found: true, Command: path, Version: version}
}

// Detail renders a display-friendly summary for status UIs.
func (p RunnerProbe) Detail() string {
	if !p.Found {
		return fmt.Sprintf("%s not found", p.Command)
	}
	if p.Version == "" {
		return p.Command
	}
	return p.Version
}
