package config

const (
	defaultConfigPath   = "~/.config/captionsync/config.toml"
	projectConfigName   = "captionsync.toml"
	transcriptCacheFile = "transcripts.db"

	defaultWorkDir   = "~/.local/share/captionsync/work"
	defaultOutputDir = "~/captions"
	defaultCacheDir  = "~/.local/share/captionsync/cache"
	defaultLogDir    = "~/.local/share/captionsync/logs"

	defaultMinWords                  = 2
	defaultMaxWords                  = 3
	defaultMatchSimilarityThreshold  = 0.6
	defaultMinCueGap                 = 0.05
	defaultLookaheadWindow           = 1
	defaultTranscriptSimilarityFloor = 0.3
	defaultSpeedMultiplier           = 1.0

	defaultHardPauseWeight = 3.0
	defaultSoftPauseWeight = 1.5

	defaultWhisperXModel = "large-v3"
	defaultVADMethod     = "silero"
	defaultLanguage      = "en"

	defaultCacheMaxAgeDays  = 30
	defaultBatchMaxParallel = 2

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultLogRetentionDays = 14
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			CacheDir:  defaultCacheDir,
			LogDir:    defaultLogDir,
		},
		Captions: Captions{
			MinWords:                  defaultMinWords,
			MaxWords:                  defaultMaxWords,
			MatchSimilarityThreshold:  defaultMatchSimilarityThreshold,
			MinCueGap:                 defaultMinCueGap,
			HoldUntilNext:             true,
			LookaheadWindow:           defaultLookaheadWindow,
			TranscriptSimilarityFloor: defaultTranscriptSimilarityFloor,
			SpeedMultiplier:           defaultSpeedMultiplier,
			NarrateTitle:              true,
			CleanStory:                true,
		},
		Fallback: Fallback{
			HardPauseWeight: defaultHardPauseWeight,
			SoftPauseWeight: defaultSoftPauseWeight,
		},
		Recognizer: Recognizer{
			WhisperXModel: defaultWhisperXModel,
			VADMethod:     defaultVADMethod,
			Language:      defaultLanguage,
		},
		Cache: Cache{
			Enabled:    true,
			MaxAgeDays: defaultCacheMaxAgeDays,
		},
		Batch: Batch{
			MaxParallel: defaultBatchMaxParallel,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
