package testsupport

import (
	"path/filepath"
	"testing"

	"medley/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.MusicDir = filepath.Join(base, "music")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWorkers overrides the bulk-analysis worker count.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Classifier.Workers = workers
	}
}

// WithMinTracks overrides the diversity floor.
func WithMinTracks(minTracks int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Classifier.MinTracks = minTracks
	}
}
