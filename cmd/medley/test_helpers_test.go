package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"medley/internal/config"
	"medley/internal/library"
	"medley/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Logging.Level = "error"
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.MusicDir, 0o755); err != nil {
		t.Fatalf("mkdir music dir: %v", err)
	}

	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	content := fmt.Sprintf(`[paths]
library_dir = %q
music_dir = %q
log_dir = %q

[logging]
format = "console"
level = %q
`, cfg.Paths.LibraryDir, cfg.Paths.MusicDir, cfg.Paths.LogDir, cfg.Logging.Level)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
}

// seedAlbum opens the library at the test config's path, inserts one album,
// and closes it again so the command under test can reopen it.
func (env *cliTestEnv) seedAlbum(t *testing.T, title, albumArtist string, compilationFlag bool, trackArtists []string) *library.Album {
	t.Helper()

	store, err := library.Open(env.cfg)
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	defer store.Close()
	return testsupport.SeedAlbum(t, store, title, albumArtist, compilationFlag, trackArtists)
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func albumIDArg(album *library.Album) string {
	return strconv.FormatInt(album.ID, 10)
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}
