package captions

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"captionsync/internal/align"
	"captionsync/internal/services"
)

const metricsNamespace = "captionsync"

// Metrics holds the Prometheus collectors updated by the pipeline. A nil
// *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	JobsTotal              *prometheus.CounterVec
	TokensTotal            *prometheus.CounterVec
	FallbacksTotal         *prometheus.CounterVec
	TranscriptCacheLookups *prometheus.CounterVec
	CuesTotal              prometheus.Counter
	JobDuration            prometheus.Histogram
	LowConfidenceRatio     prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		JobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "jobs_total",
				Help:      "Caption jobs by terminal status and span source",
			},
			[]string{"status", "source"},
		),
		TokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "tokens_total",
				Help:      "Aligned tokens by timing confidence",
			},
			[]string{"confidence"},
		),
		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "estimator_fallbacks_total",
				Help:      "Jobs timed by the duration estimator, by reason",
			},
			[]string{"reason"},
		),
		TranscriptCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "transcript_cache_lookups_total",
				Help:      "Transcript cache lookups by result",
			},
			[]string{"result"},
		),
		CuesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "cues_total",
				Help:      "Subtitle cues written",
			},
		),
		JobDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "job_duration_seconds",
				Help:      "Wall time spent generating captions for one story",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		LowConfidenceRatio: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "low_confidence_ratio",
				Help:      "Share of tokens per job that were not clean matches",
				Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes the current values in the node-exporter textfile
// format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func (m *Metrics) observeResult(result GenerateResult) {
	if m == nil {
		return
	}
	m.JobsTotal.WithLabelValues(string(services.StatusCompleted), result.Source).Inc()
	m.CuesTotal.Add(float64(len(result.Cues)))
	m.JobDuration.Observe(result.Elapsed.Seconds())
	m.LowConfidenceRatio.Observe(result.Stats.LowConfidenceRatio())
	if result.FallbackReason != "" {
		m.FallbacksTotal.WithLabelValues(result.FallbackReason).Inc()
	}
	m.observeStats(result.Stats)
}

func (m *Metrics) observeStats(stats align.Stats) {
	counts := []struct {
		confidence align.Confidence
		n          int
	}{
		{align.Matched, stats.Matched},
		{align.Mismatched, stats.Mismatched},
		{align.ExpansionFallback, stats.ExpansionFallback},
		{align.Dropped, stats.Dropped},
		{align.Interpolated, stats.Interpolated},
		{align.Estimated, stats.Estimated},
	}
	for _, c := range counts {
		if c.n > 0 {
			m.TokensTotal.WithLabelValues(c.confidence.String()).Add(float64(c.n))
		}
	}
}

func (m *Metrics) observeFailure(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.JobsTotal.WithLabelValues(string(services.FailureStatus(err)), "none").Inc()
	m.JobDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.TranscriptCacheLookups.WithLabelValues(result).Inc()
}
