package config

const (
	defaultLibraryDir = "~/.local/share/medley"
	defaultMusicDir   = "~/music"
	defaultLogDir     = "~/.local/share/medley/logs"

	defaultAutoApplyThreshold  = 0.8
	defaultHighDiversityRatio  = 0.75
	defaultBorderlineRatio     = 0.5
	defaultDominantShareCutoff = 0.25
	defaultMinTracks           = 4
	defaultWorkers             = 4

	defaultMusicBrainzBaseURL = "https://musicbrainz.org/ws/2"
	defaultUserAgent          = "medley/0.1 (https://github.com/medley-music/medley)"
	defaultRequestTimeout     = 15
	defaultRateIntervalMS     = 1100
	defaultRetryAttempts      = 3

	defaultBatchSize      = 10
	defaultMaxWaitSeconds = 30
	defaultVerifyLimit    = 50

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			MusicDir:   defaultMusicDir,
			LogDir:     defaultLogDir,
		},
		Classifier: Classifier{
			AutoApplyThreshold:  defaultAutoApplyThreshold,
			HighDiversityRatio:  defaultHighDiversityRatio,
			BorderlineRatio:     defaultBorderlineRatio,
			DominantShareCutoff: defaultDominantShareCutoff,
			MinTracks:           defaultMinTracks,
			Workers:             defaultWorkers,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:        defaultMusicBrainzBaseURL,
			UserAgent:      defaultUserAgent,
			RequestTimeout: defaultRequestTimeout,
			RateInterval:   defaultRateIntervalMS,
			RetryAttempts:  defaultRetryAttempts,
		},
		Verification: Verification{
			BatchSize:      defaultBatchSize,
			MaxWaitSeconds: defaultMaxWaitSeconds,
			DefaultLimit:   defaultVerifyLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
