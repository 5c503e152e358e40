package captions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"captionsync/internal/logging"
	"captionsync/internal/services"
	"captionsync/internal/textutil"
)

// Story folder layout.
const (
	OriginalFileName = "original.txt"
	ExpandedFileName = "expanded.txt"
	TitleFileName    = "title.txt"
	CaptionFileName  = "captions.srt"
	audioStem        = "audio"
	batchLockName    = ".captionsync.lock"
)

var audioExtensions = []string{".mp3", ".wav", ".m4a", ".flac", ".ogg", ".opus", ".aac"}

// ErrBatchLocked reports another batch already running over the same root.
var ErrBatchLocked = errors.New("batch directory locked by another run")

// Job is one story folder found by DiscoverJobs.
type Job struct {
	Name         string
	Dir          string
	OriginalPath string
	ExpandedPath string
	TitlePath    string
	AudioPath    string
	OutputPath   string
}

// DiscoverJobs lists the story folders directly under root. A folder is a
// story when it holds original.txt and an audio.* file. Captions go to
// outputDir/<slug>.srt, or into the story folder when outputDir is empty.
// Jobs are sorted by name.
func DiscoverJobs(root, outputDir string) ([]Job, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "batch", "discover", root, err)
	}
	var jobs []Job
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		job, ok := inspectStoryDir(dir)
		if !ok {
			continue
		}
		if outputDir == "" {
			job.OutputPath = filepath.Join(dir, CaptionFileName)
		} else {
			job.OutputPath = filepath.Join(outputDir, textutil.Slug(job.Name, "story")+".srt")
		}
		jobs = append(jobs, job)
	}
	slices.SortFunc(jobs, func(a, b Job) int { return strings.Compare(a.Name, b.Name) })
	return jobs, nil
}

func inspectStoryDir(dir string) (Job, bool) {
	job := Job{Name: filepath.Base(dir), Dir: dir}
	original := filepath.Join(dir, OriginalFileName)
	if !regularFile(original) {
		return job, false
	}
	job.OriginalPath = original
	for _, ext := range audioExtensions {
		candidate := filepath.Join(dir, audioStem+ext)
		if regularFile(candidate) {
			job.AudioPath = candidate
			break
		}
	}
	if job.AudioPath == "" {
		return job, false
	}
	if path := filepath.Join(dir, ExpandedFileName); regularFile(path) {
		job.ExpandedPath = path
	}
	if path := filepath.Join(dir, TitleFileName); regularFile(path) {
		job.TitlePath = path
	}
	return job, true
}

func regularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// BatchOptions tunes RunBatch.
type BatchOptions struct {
	// MaxParallel bounds concurrent jobs; <= 0 uses batch.max_parallel.
	MaxParallel int
	// LogDir, when set, receives one job-<id>.log per job.
	LogDir        string
	ForceEstimate bool
}

// JobOutcome is the terminal state of one batch job.
type JobOutcome struct {
	Job    Job
	ID     string
	Status services.Status
	Result GenerateResult
	Err    error
}

// BatchReport collects every job outcome in discovery order.
type BatchReport struct {
	// ID correlates the log lines of every job in the run.
	ID       string
	Outcomes []JobOutcome
	Started  time.Time
	Finished time.Time
}

// Count returns the number of outcomes with status.
func (r BatchReport) Count(status services.Status) int {
	n := 0
	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any job ended in failed or review.
func (r BatchReport) Failed() bool {
	return r.Count(services.StatusFailed)+r.Count(services.StatusReview) > 0
}

// RunBatch generates captions for jobs under root. Job failures are recorded
// in the report and do not stop other jobs; the returned error covers the
// batch itself (lock contention or cancellation).
func (s *Service) RunBatch(ctx context.Context, root string, jobs []Job, opts BatchOptions) (BatchReport, error) {
	report := BatchReport{ID: uuid.NewString(), Started: time.Now()}
	ctx = services.WithRequestID(ctx, report.ID)
	lock := flock.New(filepath.Join(root, batchLockName))
	locked, err := lock.TryLock()
	if err != nil {
		return report, services.Wrap(services.ErrConfiguration, "batch", "lock", root, err)
	}
	if !locked {
		return report, ErrBatchLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Debug("batch unlock failed", logging.Error(err))
		}
	}()

	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return report, services.Wrap(services.ErrConfiguration, "batch", "log dir", opts.LogDir, err)
		}
		logging.CleanupOldLogs(s.logger, s.cfg.Logging.RetentionDays, logging.RetentionTarget{
			Dir:     opts.LogDir,
			Pattern: logging.JobLogPattern,
		})
	}

	limit := opts.MaxParallel
	if limit <= 0 {
		limit = s.cfg.Batch.MaxParallel
	}
	limit = max(limit, 1)

	s.logger.Info("batch started",
		logging.String(logging.FieldCorrelationID, report.ID),
		logging.Int("jobs", len(jobs)),
		logging.Int("max_parallel", limit),
		logging.String("batch_root", root),
	)

	report.Outcomes = make([]JobOutcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			outcome := s.runJob(gctx, job, opts)
			report.Outcomes[i] = outcome
			if outcome.Status == services.StatusCanceled {
				return outcome.Err
			}
			return nil
		})
	}
	waitErr := g.Wait()
	report.Finished = time.Now()

	s.logger.Info("batch finished",
		logging.Int("succeeded", report.Count(services.StatusCompleted)),
		logging.Int("failed", report.Count(services.StatusFailed)),
		logging.Int("review", report.Count(services.StatusReview)),
		logging.Duration("stage_duration", report.Finished.Sub(report.Started)),
	)
	if waitErr != nil {
		return report, waitErr
	}
	return report, ctx.Err()
}

func (s *Service) runJob(ctx context.Context, job Job, opts BatchOptions) JobOutcome {
	id := uuid.NewString()
	outcome := JobOutcome{Job: job, ID: id}
	if err := ctx.Err(); err != nil {
		outcome.Status = services.StatusCanceled
		outcome.Err = err
		return outcome
	}

	base := s.base
	if base == nil {
		base = logging.NewNop()
	}
	svc := s.withLogger(base.With(logging.String(logging.FieldJobID, id)))
	if opts.LogDir != "" {
		jobLogger, closer, err := logging.NewJobLogger(base, opts.LogDir, id)
		if err != nil {
			logging.WarnWithContext(s.logger, "job log unavailable", "job_log_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "job logs only go to the main log"),
			)
		} else {
			defer closeQuietly(s.logger, closer)
			svc = s.withLogger(jobLogger)
		}
	}

	req, err := loadJobRequest(job)
	if err == nil {
		req.JobID = id
		req.ForceEstimate = opts.ForceEstimate
		outcome.Result, err = svc.Generate(ctx, req)
	}
	outcome.Err = err
	outcome.Status = services.FailureStatus(err)
	if err == nil && len(outcome.Result.Issues) > 0 {
		outcome.Status = services.StatusReview
	}
	if err != nil && outcome.Status != services.StatusCanceled {
		logging.ErrorWithContext(logging.WithContext(ctx, svc.logger), "caption job failed", "job_failed",
			logging.String("title", job.Name),
			logging.Error(err),
		)
	}
	return outcome
}

func loadJobRequest(job Job) (GenerateRequest, error) {
	req := GenerateRequest{AudioPath: job.AudioPath, OutputPath: job.OutputPath}
	original, err := os.ReadFile(job.OriginalPath)
	if err != nil {
		return req, services.Wrap(services.ErrNotFound, "batch", "read story", job.OriginalPath, err)
	}
	req.Original = string(original)
	if job.ExpandedPath != "" {
		data, err := os.ReadFile(job.ExpandedPath)
		if err != nil {
			return req, services.Wrap(services.ErrNotFound, "batch", "read expanded text", job.ExpandedPath, err)
		}
		req.Expanded = string(data)
	}
	if job.TitlePath != "" {
		data, err := os.ReadFile(job.TitlePath)
		if err != nil {
			return req, services.Wrap(services.ErrNotFound, "batch", "read title", job.TitlePath, err)
		}
		req.Title = strings.TrimSpace(string(data))
	}
	return req, nil
}

func closeQuietly(logger *slog.Logger, closer io.Closer) {
	if err := closer.Close(); err != nil {
		logger.Debug("close failed", logging.Error(fmt.Errorf("close job log: %w", err)))
	}
}
