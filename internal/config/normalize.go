package config

import "strings"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeClassifier()
	c.normalizeMusicBrainz()
	c.normalizeVerification()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		value    *string
		fallback string
	}{
		{&c.Paths.LibraryDir, defaultLibraryDir},
		{&c.Paths.MusicDir, defaultMusicDir},
		{&c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := ExpandPath(*field.value)
		if err != nil {
			return err
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeClassifier() {
	if c.Classifier.AutoApplyThreshold == 0 {
		c.Classifier.AutoApplyThreshold = defaultAutoApplyThreshold
	}
	if c.Classifier.HighDiversityRatio == 0 {
		c.Classifier.HighDiversityRatio = defaultHighDiversityRatio
	}
	if c.Classifier.BorderlineRatio == 0 {
		c.Classifier.BorderlineRatio = defaultBorderlineRatio
	}
	if c.Classifier.DominantShareCutoff == 0 {
		c.Classifier.DominantShareCutoff = defaultDominantShareCutoff
	}
	if c.Classifier.MinTracks <= 0 {
		c.Classifier.MinTracks = defaultMinTracks
	}
	if c.Classifier.Workers <= 0 {
		c.Classifier.Workers = defaultWorkers
	}
}

func (c *Config) normalizeMusicBrainz() {
	c.MusicBrainz.BaseURL = strings.TrimRight(strings.TrimSpace(c.MusicBrainz.BaseURL), "/")
	if c.MusicBrainz.BaseURL == "" {
		c.MusicBrainz.BaseURL = defaultMusicBrainzBaseURL
	}
	if strings.TrimSpace(c.MusicBrainz.UserAgent) == "" {
		c.MusicBrainz.UserAgent = defaultUserAgent
	}
	if c.MusicBrainz.RequestTimeout <= 0 {
		c.MusicBrainz.RequestTimeout = defaultRequestTimeout
	}
	if c.MusicBrainz.RateInterval <= 0 {
		c.MusicBrainz.RateInterval = defaultRateIntervalMS
	}
	if c.MusicBrainz.RetryAttempts <= 0 {
		c.MusicBrainz.RetryAttempts = defaultRetryAttempts
	}
}

func (c *Config) normalizeVerification() {
	if c.Verification.BatchSize <= 0 {
		c.Verification.BatchSize = defaultBatchSize
	}
	if c.Verification.MaxWaitSeconds <= 0 {
		c.Verification.MaxWaitSeconds = defaultMaxWaitSeconds
	}
	if c.Verification.DefaultLimit <= 0 {
		c.Verification.DefaultLimit = defaultVerifyLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
