package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"captionsync/internal/captions"
	"captionsync/internal/config"
	"captionsync/internal/logging"
	"captionsync/internal/transcriptcache"
)

type commandContext struct {
	configFlag *string
	verbose    *bool
	sessionID  string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		sessionID:  uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// ensureLogger builds the session logger: console or JSON on stderr plus the
// rolling log file under paths.log_dir.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logCfg := *cfg
		if c.verbose != nil && *c.verbose {
			logCfg.Logging.Level = "debug"
		}
		logger, err := logging.NewFromConfig(&logCfg, c.sessionID)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// captionService wires a caption service with the transcript cache (when
// enabled) and a fresh metrics registry. The returned cleanup closes the
// cache.
func (c *commandContext) captionService(cmd *cobra.Command, opts ...captions.ServiceOption) (*captions.Service, *captions.Metrics, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {}
	metrics := captions.NewMetrics()
	serviceOpts := []captions.ServiceOption{captions.WithMetrics(metrics)}

	if cfg.Cache.Enabled {
		cache, err := transcriptcache.Open(cmd.Context(), cfg.TranscriptCachePath(), logger)
		if err != nil {
			logging.WarnWithContext(logger, "transcript cache unavailable", "transcript_cache_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check cache_dir permissions or disable [cache]"),
				logging.String(logging.FieldImpact, "every run transcribes audio again"),
			)
		} else {
			if pruned, err := cache.Prune(cmd.Context(), maxAge(cfg)); err != nil {
				logger.Debug("transcript cache prune failed", logging.Error(err))
			} else if pruned > 0 {
				logger.Info("pruned stale transcripts", logging.Int64("pruned", pruned))
			}
			serviceOpts = append(serviceOpts, captions.WithTranscriptCache(cache))
			cleanup = func() { _ = cache.Close() }
		}
	}

	serviceOpts = append(serviceOpts, opts...)
	return captions.NewService(cfg, logger, serviceOpts...), metrics, cleanup, nil
}

// openCache opens the transcript cache for the cache subcommands.
func (c *commandContext) openCache(cmd *cobra.Command) (*transcriptcache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return nil, fmt.Errorf("transcript cache is disabled (set [cache] enabled = true in config.toml)")
	}
	return transcriptcache.Open(cmd.Context(), cfg.TranscriptCachePath(), logging.NewNop())
}

func maxAge(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Cache.MaxAgeDays) * 24 * time.Hour
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
