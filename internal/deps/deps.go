package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary the caption pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Satisfied reports whether the dependency is available or not required.
func (s Status) Satisfied() bool {
	return s.Available || s.Optional
}

// PipelineRequirements lists the binaries `generate` and `batch` invoke.
// The recognizer runner is optional when every job may fall back to estimation.
func PipelineRequirements(ffmpegBinary, ffprobeBinary string, recognizerRequired bool) []Requirement {
	ffmpegBinary = ResolveFFmpegPath(ffmpegBinary)
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpegBinary, Description: "Extracts recognizer audio"},
		{Name: "FFprobe", Command: ResolveFFprobePath(ffprobeBinary, ffmpegBinary), Description: "Measures narration duration"},
		{Name: "uvx", Command: "uvx", Description: "Runs WhisperX for word timestamps", Optional: !recognizerRequired},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			if resolved, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Available = true
				status.Command = resolved
			}
		}
		results = append(results, status)
	}
	return results
}

// AllSatisfied reports whether every status is available or optional.
func AllSatisfied(statuses []Status) bool {
	for _, status := range statuses {
		if !status.Satisfied() {
			return false
		}
	}
	return true
}
