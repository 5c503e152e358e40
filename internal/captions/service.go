package captions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"captionsync/internal/align"
	"captionsync/internal/config"
	"captionsync/internal/cues"
	"captionsync/internal/deps"
	"captionsync/internal/expansion"
	"captionsync/internal/fileutil"
	"captionsync/internal/lexical"
	"captionsync/internal/logging"
	"captionsync/internal/media/ffprobe"
	"captionsync/internal/services"
	"captionsync/internal/services/whisperx"
	"captionsync/internal/transcriptcache"
)

const (
	stagePrepare   = "prepare"
	stageRecognize = "recognize"
	stageAlign     = "align"
	stageWrite     = "write"
)

// DurationProbe reports the length of an audio file in seconds.
type DurationProbe func(ctx context.Context, path string) (float64, error)

// GenerateRequest describes one story to caption.
type GenerateRequest struct {
	// JobID labels logs and the work directory. Empty assigns a new UUID.
	JobID    string
	Title    string
	Original string
	// Expanded is the text the TTS engine spoke. Empty derives it from
	// Original with the expansion table.
	Expanded  string
	AudioPath string
	// Duration overrides probing AudioPath when positive.
	Duration float64
	// Transcript, when set, is used instead of running the recognizer.
	Transcript    *Transcript
	OutputPath    string
	ForceEstimate bool
}

// GenerateResult reports the written captions and how they were timed.
type GenerateResult struct {
	JobID      string
	OutputPath string
	Cues       []cues.Cue
	Stats      align.Stats
	// Source is "recognizer" or "estimator".
	Source               string
	FallbackReason       string
	TranscriptSimilarity float64
	AudioDuration        float64
	CacheHit             bool
	// Issues lists structural problems found in the written captions.
	Issues  []string
	Elapsed time.Duration
}

// Service runs the caption pipeline.
type Service struct {
	cfg         *config.Config
	base        *slog.Logger
	logger      *slog.Logger
	table       *expansion.Table
	transcriber Transcriber
	probe       DurationProbe
	cache       *transcriptcache.Cache
	metrics     *Metrics
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithTranscriber replaces the WhisperX transcriber (used in tests).
func WithTranscriber(t Transcriber) ServiceOption {
	return func(s *Service) {
		s.transcriber = t
	}
}

// WithoutTranscriber disables recognition; every job falls back to the
// estimator unless the request carries a transcript.
func WithoutTranscriber() ServiceOption {
	return func(s *Service) {
		s.transcriber = nil
	}
}

// WithDurationProbe replaces the ffprobe duration lookup.
func WithDurationProbe(probe DurationProbe) ServiceOption {
	return func(s *Service) {
		if probe != nil {
			s.probe = probe
		}
	}
}

// WithTranscriptCache enables transcript reuse across runs.
func WithTranscriptCache(cache *transcriptcache.Cache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithMetrics records pipeline metrics into m.
func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithExpansionTable overrides the built-in expansion table.
func WithExpansionTable(table *expansion.Table) ServiceOption {
	return func(s *Service) {
		if table != nil {
			s.table = table
		}
	}
}

// NewService constructs a caption service. Without options it transcribes
// with WhisperX and probes durations with ffprobe.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...ServiceOption) *Service {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	ffmpegBinary := deps.ResolveFFmpegPath(cfg.FFmpegBinary())
	ffprobeBinary := deps.ResolveFFprobePath(cfg.FFprobeBinary(), ffmpegBinary)
	svc := &Service{
		cfg:         cfg,
		base:        logger,
		logger:      logging.NewComponentLogger(logger, "captions"),
		table:       expansion.Default(),
		transcriber: whisperx.NewService(WhisperXConfig(cfg), ffmpegBinary),
		probe: func(ctx context.Context, path string) (float64, error) {
			return ffprobe.AudioDuration(ctx, ffprobeBinary, path)
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// SetLogger swaps the service logger.
func (s *Service) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.base = logger
	s.logger = logging.NewComponentLogger(logger, "captions")
}

// withLogger returns a shallow copy that logs to logger.
func (s *Service) withLogger(logger *slog.Logger) *Service {
	clone := *s
	clone.SetLogger(logger)
	return &clone
}

// Generate captions one story and writes the SRT to req.OutputPath.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if s == nil {
		return GenerateResult{}, services.Wrap(services.ErrConfiguration, "captions", "init", "caption service unavailable", nil)
	}
	started := time.Now()
	result, err := s.generate(ctx, req)
	result.Elapsed = time.Since(started)
	if err != nil {
		s.metrics.observeFailure(err, result.Elapsed)
		return result, err
	}
	s.metrics.observeResult(result)
	return result, nil
}

func (s *Service) generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	jobID := strings.TrimSpace(req.JobID)
	if jobID == "" {
		jobID = uuid.NewString()
	}
	result := GenerateResult{JobID: jobID, OutputPath: req.OutputPath}
	ctx = services.WithJobID(ctx, jobID)

	// prepare
	prepCtx := services.WithStage(ctx, stagePrepare)
	logger := logging.WithContext(prepCtx, s.logger)
	if strings.TrimSpace(req.OutputPath) == "" {
		return result, services.Wrap(services.ErrValidation, "captions", stagePrepare, "output path required", nil)
	}
	narration := PrepareNarration(req.Title, req.Original, req.Expanded, NarrationOptionsFromConfig(s.cfg), s.table)
	if narration.Original == "" {
		return result, services.Wrap(services.ErrValidation, "captions", stagePrepare, "story text is empty", nil)
	}
	duration, err := s.audioDuration(prepCtx, req)
	if err != nil {
		return result, err
	}
	result.AudioDuration = duration
	normalized := lexical.Normalize(narration.Original, narration.Expanded, s.table)
	if len(normalized.Original) == 0 {
		return result, services.Wrap(services.ErrValidation, "captions", stagePrepare, "story has no words to caption", nil)
	}
	logger.Debug("narration prepared",
		logging.Int("token_count", len(normalized.Original)),
		logging.Int("spoken_tokens", len(normalized.Expanded)),
		logging.Float64("audio_duration", duration),
	)

	// recognize
	recCtx := services.WithStage(ctx, stageRecognize)
	logger = logging.WithContext(recCtx, s.logger)
	transcript, recErr := s.transcript(recCtx, logger, jobID, req, &result)
	if recErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		if !errors.Is(recErr, errRecognizerUnavailable) {
			logging.WarnWithContext(logger, "transcription failed; using duration estimate", "transcription_failed",
				logging.Error(recErr),
				logging.String(logging.FieldErrorHint, "run `captionsync check` to verify ffmpeg and uvx"),
				logging.String(logging.FieldImpact, "captions are timed from text length only"),
			)
		}
	}

	// align
	alignCtx := services.WithStage(ctx, stageAlign)
	logger = logging.WithContext(alignCtx, s.logger)
	decision := s.chooseSource(narration, transcript, duration, req.ForceEstimate, recErr)
	result.Source = decision.source.Name()
	result.FallbackReason = decision.reason
	result.TranscriptSimilarity = decision.similarity
	s.logDecision(logger, decision, len(transcript.Words))

	spans, err := decision.source.Spans(normalized.Original)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, "captions", stageAlign, "time tokens", err)
	}
	cueOpts := CueOptions(s.cfg, duration)
	if err := cueOpts.Validate(); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "captions", stageAlign, "cue options", err)
	}
	speed := s.speedMultiplier()
	result.Cues = cues.Scale(cues.Group(spans, cueOpts), speed)
	result.Stats = align.Summarize(spans)

	// write
	writeCtx := services.WithStage(ctx, stageWrite)
	logger = logging.WithContext(writeCtx, s.logger)
	result.Issues = cues.Validate(result.Cues, duration/speed)
	if len(result.Issues) > 0 {
		logging.WarnWithContext(logger, "caption validation issues", "caption_validation",
			logging.Int("validation_issues", len(result.Issues)),
			logging.String("first_issue", result.Issues[0]),
			logging.String(logging.FieldImpact, "captions written but may need review"),
		)
	}
	err = fileutil.WriteAtomic(req.OutputPath, 0o644, func(w io.Writer) error {
		return cues.Write(w, result.Cues)
	})
	if err != nil {
		return result, services.Wrap(services.ErrTransient, "captions", stageWrite, "write srt", err)
	}

	logger.Info("captions generated",
		logging.String("output", req.OutputPath),
		logging.Int("cue_count", len(result.Cues)),
		logging.Int("token_count", result.Stats.Total),
		logging.Int("matched", result.Stats.Matched),
		logging.Float64("low_confidence_ratio", result.Stats.LowConfidenceRatio()),
		logging.String("span_source", result.Source),
		logging.Bool("cache_hit", result.CacheHit),
	)
	return result, nil
}

func (s *Service) audioDuration(ctx context.Context, req GenerateRequest) (float64, error) {
	if req.Duration > 0 {
		return req.Duration, nil
	}
	if strings.TrimSpace(req.AudioPath) == "" {
		return 0, services.Wrap(services.ErrValidation, "captions", stagePrepare, "audio path or duration required", nil)
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return 0, services.Wrap(services.ErrNotFound, "captions", stagePrepare, fmt.Sprintf("audio %s", req.AudioPath), err)
	}
	duration, err := s.probe(ctx, req.AudioPath)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "captions", "probe duration", req.AudioPath, err)
	}
	if duration <= 0 {
		return 0, services.Wrap(services.ErrValidation, "captions", "probe duration", req.AudioPath, align.ErrInvalidDuration)
	}
	return duration, nil
}

// transcript returns the request's transcript, or recognizes the audio. A
// non-nil error means no usable transcript.
func (s *Service) transcript(ctx context.Context, logger *slog.Logger, jobID string, req GenerateRequest, result *GenerateResult) (Transcript, error) {
	if req.Transcript != nil {
		return *req.Transcript, nil
	}
	if req.ForceEstimate {
		return Transcript{}, nil
	}
	if strings.TrimSpace(req.AudioPath) == "" {
		return Transcript{}, errRecognizerUnavailable
	}
	workDir := filepath.Join(s.cfg.Paths.WorkDir, jobID)
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Debug("work dir cleanup failed", logging.Error(err))
		}
	}()
	transcript, hit, err := s.recognize(ctx, logger, req.AudioPath, workDir)
	result.CacheHit = hit
	return transcript, err
}

func (s *Service) logDecision(logger *slog.Logger, decision sourceDecision, words int) {
	reason := decision.reason
	if reason == "" {
		reason = "transcript matches narration"
	}
	attrs := logging.DecisionAttrs("span_source", decision.source.Name(), reason)
	attrs = append(attrs,
		logging.Int("word_count", words),
		logging.Float64("transcript_similarity", decision.similarity),
	)
	switch decision.reason {
	case FallbackLowSimilarity, FallbackNoWords, FallbackRecognizerFailed:
		attrs = append(attrs, logging.String("fallback_reason", decision.reason))
		logging.WarnWithContext(logger, "using duration estimate", "estimator_fallback", append(attrs,
			logging.String(logging.FieldErrorHint, "check the audio matches the story text"),
			logging.String(logging.FieldImpact, "caption timing is approximate"),
		)...)
		return
	case FallbackForced, FallbackNoRecognizer:
		attrs = append(attrs, logging.String("fallback_reason", decision.reason))
	}
	logger.Info("span source selected", logging.Args(attrs...)...)
}

func (s *Service) speedMultiplier() float64 {
	if s.cfg == nil || s.cfg.Captions.SpeedMultiplier <= 0 {
		return 1
	}
	return s.cfg.Captions.SpeedMultiplier
}
