package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	MusicDir   string `toml:"music_dir"`
	LogDir     string `toml:"log_dir"`
}

// Classifier contains the detection thresholds. Every cutoff the cascade
// uses is configurable so tests and deployments are not coupled to one
// tool's defaults.
type Classifier struct {
	// AutoApplyThreshold is the minimum confidence at which a detector
	// result is accepted without external verification.
	AutoApplyThreshold float64 `toml:"auto_apply_threshold"`
	// HighDiversityRatio is the diversity ratio at or above which an album
	// is classified as a compilation outright.
	HighDiversityRatio float64 `toml:"high_diversity_ratio"`
	// BorderlineRatio is the lower bound of the diversity band escalated to
	// external verification.
	BorderlineRatio float64 `toml:"borderline_ratio"`
	// DominantShareCutoff marks an album as a compilation when no single
	// artist reaches this share of the tracks.
	DominantShareCutoff float64 `toml:"dominant_share_cutoff"`
	// MinTracks is the floor below which diversity analysis never runs.
	MinTracks int `toml:"min_tracks"`
	// Workers bounds concurrent per-album classification during bulk runs.
	Workers int `toml:"workers"`
}

// MusicBrainz contains configuration for the external authority lookups.
type MusicBrainz struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	RequestTimeout int    `toml:"request_timeout"`
	// RateInterval is the minimum spacing between outbound requests, in
	// milliseconds. MusicBrainz enforces one request per second.
	RateInterval  int `toml:"rate_interval_ms"`
	RetryAttempts int `toml:"retry_attempts"`
}

// Verification contains batching parameters for borderline albums.
type Verification struct {
	BatchSize int `toml:"batch_size"`
	// MaxWaitSeconds flushes a partial batch once its oldest album has
	// waited this long.
	MaxWaitSeconds int `toml:"max_wait_seconds"`
	// DefaultLimit caps how many borderline albums one verify run submits.
	DefaultLimit int `toml:"default_limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for medley.
type Config struct {
	Paths        Paths        `toml:"paths"`
	Classifier   Classifier   `toml:"classifier"`
	MusicBrainz  MusicBrainz  `toml:"musicbrainz"`
	Verification Verification `toml:"verification"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/medley/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path, the third reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LibraryDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the album library database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.LibraryDir, "library.db")
}

// LockPath returns the file lock guarding bulk runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LibraryDir, "medley.lock")
}

// ExpandPath resolves ~ prefixes and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			trimmed = home
		} else {
			trimmed = filepath.Join(home, trimmed[2:])
		}
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}
