package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// Refuses to overwrite.
	if _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestAnalyzeCommandClassifiesAlbum(t *testing.T) {
	env := setupCLITestEnv(t)
	album := env.seedAlbum(t, "Now That's What I Call Music! 80", "Various Artists", false,
		[]string{"Dua Lipa", "Harry Styles", "Lizzo", "Sam Smith", "Adele"})

	out, err := runCLI(t, []string{"analyze", albumIDArg(album)}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "compilation=yes")
	requireContains(t, out, "pattern_match")
}

func TestAnalyzeAllAndStatsCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedAlbum(t, "OK Computer", "Radiohead", false,
		[]string{"Radiohead", "Radiohead", "Radiohead", "Radiohead", "Radiohead"})
	env.seedAlbum(t, "Greatest Hits of the 90s", "", false,
		[]string{"Ace of Base", "Haddaway", "Snap!", "Corona", "Culture Beat"})

	out, err := runCLI(t, []string{"analyze-all"}, env.configPath)
	if err != nil {
		t.Fatalf("analyze-all: %v", err)
	}
	requireContains(t, out, "Classified 2 albums, 0 failed")

	out, err = runCLI(t, []string{"stats"}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Total albums")
	requireContains(t, out, "2")
}

func TestOverrideRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)
	album := env.seedAlbum(t, "Contested", "Someone", false,
		[]string{"Someone", "Someone", "Someone", "Someone"})

	out, err := runCLI(t, []string{"override", albumIDArg(album), "--compilation", "--reason", "liner notes"}, env.configPath)
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	requireContains(t, out, "pinned as compilation=yes")

	out, err = runCLI(t, []string{"info", albumIDArg(album)}, env.configPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "manual_override")
	requireContains(t, out, "locked")

	if _, err := runCLI(t, []string{"clear-override", albumIDArg(album)}, env.configPath); err != nil {
		t.Fatalf("clear-override: %v", err)
	}
	out, err = runCLI(t, []string{"info", albumIDArg(album)}, env.configPath)
	if err != nil {
		t.Fatalf("info after clear: %v", err)
	}
	requireContains(t, out, "unclassified")
}

func TestAnalyzeRejectsBadAlbumID(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, []string{"analyze", "zero"}, env.configPath); err == nil {
		t.Fatal("expected error for malformed album id")
	}
}

func TestImportCommandReportsCounts(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(filepath.Join(env.cfg.Paths.MusicDir, "broken.mp3"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := runCLI(t, []string{"import"}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported 0 albums")
	requireContains(t, out, "skipped 1")
}
