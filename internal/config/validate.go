package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports configuration values that cannot drive the pipeline.
func (c *Config) Validate() error {
	var problems []string

	if err := c.validateClassifier(); err != nil {
		problems = append(problems, err.Error())
	}
	if err := c.validateVerification(); err != nil {
		problems = append(problems, err.Error())
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateClassifier() error {
	cl := c.Classifier
	if cl.AutoApplyThreshold < 0 || cl.AutoApplyThreshold > 1 {
		return fmt.Errorf("classifier.auto_apply_threshold must be in [0,1], got %v", cl.AutoApplyThreshold)
	}
	if cl.HighDiversityRatio <= 0 || cl.HighDiversityRatio > 1 {
		return fmt.Errorf("classifier.high_diversity_ratio must be in (0,1], got %v", cl.HighDiversityRatio)
	}
	if cl.BorderlineRatio < 0 || cl.BorderlineRatio >= cl.HighDiversityRatio {
		return fmt.Errorf("classifier.borderline_ratio must sit below high_diversity_ratio, got %v", cl.BorderlineRatio)
	}
	if cl.DominantShareCutoff <= 0 || cl.DominantShareCutoff >= 1 {
		return fmt.Errorf("classifier.dominant_share_cutoff must be in (0,1), got %v", cl.DominantShareCutoff)
	}
	if cl.MinTracks < 1 {
		return fmt.Errorf("classifier.min_tracks must be at least 1, got %d", cl.MinTracks)
	}
	return nil
}

func (c *Config) validateVerification() error {
	if c.Verification.BatchSize < 1 {
		return fmt.Errorf("verification.batch_size must be at least 1, got %d", c.Verification.BatchSize)
	}
	if c.Verification.DefaultLimit < 1 {
		return fmt.Errorf("verification.default_limit must be at least 1, got %d", c.Verification.DefaultLimit)
	}
	return nil
}
