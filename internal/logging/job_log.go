package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// JobLogPattern matches the per-job log files written by NewJobLogger.
const JobLogPattern = "job-*.log"

// NewJobLogger tees base into a debug-level JSON log file for a single job.
// The returned closer must be called once the job finishes.
func NewJobLogger(base *slog.Logger, dir, jobID string) (*slog.Logger, io.Closer, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, nil, fmt.Errorf("job log: empty job id")
	}
	path := JobLogPath(dir, jobID)
	file, err := openLogFile(path)
	if err != nil {
		return nil, nil, err
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	jobHandler := newJSONHandler(file, levelVar, false)
	logger := teeLogger(base, jobHandler).With(String(FieldJobID, jobID))
	return logger, file, nil
}

// JobLogPath returns the log file path for a job under dir.
func JobLogPath(dir, jobID string) string {
	return filepath.Join(dir, "job-"+jobID+".log")
}
