package captions

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"captionsync/internal/align"
	"captionsync/internal/fileutil"
	"captionsync/internal/logging"
	"captionsync/internal/services/whisperx"
	"captionsync/internal/transcriptcache"
)

// Transcriber produces recognizer segments for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, workDir string) (whisperx.Transcript, error)
	Model() string
}

// Transcript supplies pre-recorded recognizer output in place of running the
// recognizer.
type Transcript struct {
	Words []align.RecognizedWord
	// Text is the recognizer's own transcript. Empty joins the word surfaces.
	Text string
}

// TranscriptFromSegments flattens WhisperX segments into a Transcript.
func TranscriptFromSegments(segments []whisperx.Segment) Transcript {
	return Transcript{
		Words: whisperx.FlattenWords(segments),
		Text:  whisperx.Text(segments),
	}
}

func (t Transcript) text() string {
	if strings.TrimSpace(t.Text) != "" {
		return t.Text
	}
	surfaces := make([]string, 0, len(t.Words))
	for _, word := range t.Words {
		surfaces = append(surfaces, word.Surface)
	}
	return strings.Join(surfaces, " ")
}

var errRecognizerUnavailable = errors.New("recognizer unavailable")

// recognize returns the transcript for audioPath, reading and filling the
// transcript cache when one is configured. Cache failures are logged and
// never fail the job.
func (s *Service) recognize(ctx context.Context, logger *slog.Logger, audioPath, workDir string) (Transcript, bool, error) {
	if s.transcriber == nil {
		return Transcript{}, false, errRecognizerUnavailable
	}

	key, cacheable := s.cacheKey(logger, audioPath)
	if cacheable {
		if transcript, ok := s.cachedTranscript(ctx, logger, key); ok {
			return transcript, true, nil
		}
	}

	started := time.Now()
	result, err := s.transcriber.Transcribe(ctx, audioPath, workDir)
	if err != nil {
		return Transcript{}, false, err
	}
	transcript := TranscriptFromSegments(result.Segments)
	logger.Info("transcription complete",
		logging.Int("word_count", len(transcript.Words)),
		logging.Int("segments", len(result.Segments)),
		logging.Duration("stage_duration", time.Since(started)),
	)

	if cacheable {
		s.storeTranscript(ctx, logger, key, audioPath, result.Segments, transcript)
	}
	return transcript, false, nil
}

func (s *Service) cacheKey(logger *slog.Logger, audioPath string) (transcriptcache.Key, bool) {
	if s.cache == nil {
		return transcriptcache.Key{}, false
	}
	digest, err := fileutil.SHA256File(audioPath)
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache key unavailable", "transcript_cache_key_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the audio file is readable"),
			logging.String(logging.FieldImpact, "transcription will not be cached"),
		)
		return transcriptcache.Key{}, false
	}
	return transcriptcache.Key{
		AudioSHA256: digest,
		Model:       s.transcriber.Model(),
		Language:    s.language(),
	}, true
}

func (s *Service) cachedTranscript(ctx context.Context, logger *slog.Logger, key transcriptcache.Key) (Transcript, bool) {
	entry, ok, err := s.cache.Lookup(ctx, key, s.cacheMaxAge())
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache lookup failed", "transcript_cache_read_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run `captionsync cache clear` if the cache is corrupt"),
			logging.String(logging.FieldImpact, "audio will be transcribed again"),
		)
		s.metrics.observeCacheLookup(false)
		return Transcript{}, false
	}
	if !ok {
		s.metrics.observeCacheLookup(false)
		logger.Debug("transcript cache miss", logging.String("audio_sha256", key.AudioSHA256))
		return Transcript{}, false
	}
	segments, err := whisperx.ParseSegments(entry.SegmentsJSON)
	if err != nil {
		logging.WarnWithContext(logger, "cached transcript unreadable", "transcript_cache_decode_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "audio will be transcribed again"),
		)
		s.metrics.observeCacheLookup(false)
		return Transcript{}, false
	}
	s.metrics.observeCacheLookup(true)
	transcript := TranscriptFromSegments(segments)
	logger.Info("transcript cache hit",
		logging.Bool("cache_hit", true),
		logging.Int("word_count", len(transcript.Words)),
		logging.String("cached_at", entry.CreatedAt.Format(time.RFC3339)),
	)
	return transcript, true
}

func (s *Service) storeTranscript(ctx context.Context, logger *slog.Logger, key transcriptcache.Key, audioPath string, segments []whisperx.Segment, transcript Transcript) {
	payload, err := whisperx.EncodeSegments(segments)
	if err == nil {
		var duration float64
		if n := len(transcript.Words); n > 0 {
			duration = transcript.Words[n-1].End
		}
		err = s.cache.Store(ctx, transcriptcache.Entry{
			Key:             key,
			AudioPath:       audioPath,
			DurationSeconds: duration,
			WordCount:       len(transcript.Words),
			SegmentsJSON:    payload,
		})
	}
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache store failed", "transcript_cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "next run will transcribe again"),
		)
	}
}

func (s *Service) cacheMaxAge() time.Duration {
	if s.cfg == nil || s.cfg.Cache.MaxAgeDays <= 0 {
		return 0
	}
	return time.Duration(s.cfg.Cache.MaxAgeDays) * 24 * time.Hour
}

func (s *Service) language() string {
	if s.cfg == nil {
		return ""
	}
	return s.cfg.Recognizer.Language
}
