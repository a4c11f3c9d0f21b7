package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"medley/internal/library"
	"medley/internal/testsupport"
)

func TestGroupAlbumsByDirectoryAndTitle(t *testing.T) {
	tracks := []trackMeta{
		{Path: "/music/now80/01.mp3", Album: "Now 80", Artist: "Dua Lipa", CompilationFlag: true},
		{Path: "/music/now80/02.mp3", Album: "Now 80", Artist: "Harry Styles"},
		{Path: "/music/okc/01.flac", Album: "OK Computer", AlbumArtist: "Radiohead", Artist: "Radiohead"},
		{Path: "/music/okc/02.flac", Album: "OK Computer", AlbumArtist: "Radiohead", Artist: "Radiohead"},
		// Same title as the first album but in another folder.
		{Path: "/other/now80/01.mp3", Album: "Now 80", Artist: "Someone Else"},
	}

	albums := groupAlbums(tracks)
	if len(albums) != 3 {
		t.Fatalf("albums = %d, want 3", len(albums))
	}

	byTitle := make(map[string][]library.NewAlbumParams)
	for _, album := range albums {
		byTitle[album.Title] = append(byTitle[album.Title], album)
	}
	if len(byTitle["Now 80"]) != 2 {
		t.Errorf("want two separate Now 80 albums, got %d", len(byTitle["Now 80"]))
	}

	okc := byTitle["OK Computer"][0]
	if okc.AlbumArtist != "Radiohead" || len(okc.TrackArtists) != 2 {
		t.Errorf("OK Computer grouped wrong: %+v", okc)
	}
	if okc.CompilationFlag {
		t.Error("OK Computer must not inherit another album's flag")
	}

	for _, now := range byTitle["Now 80"] {
		if len(now.TrackArtists) == 2 && !now.CompilationFlag {
			t.Error("one flagged track marks the whole album")
		}
	}
}

func TestGroupAlbumsFallsBackToAlbumArtistCredit(t *testing.T) {
	tracks := []trackMeta{
		{Path: "/music/solo/01.mp3", Album: "Solo", AlbumArtist: "The Band", Artist: ""},
	}
	albums := groupAlbums(tracks)
	if len(albums) != 1 {
		t.Fatalf("albums = %d, want 1", len(albums))
	}
	if albums[0].TrackArtists[0] != "The Band" {
		t.Errorf("track artist = %q, want album artist fallback", albums[0].TrackArtists[0])
	}
}

func TestCompilationFrameVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want bool
	}{
		{"mp4 bool", map[string]interface{}{"cpil": true}, true},
		{"mp4 bool false", map[string]interface{}{"cpil": false}, false},
		{"id3 text", map[string]interface{}{"TCMP": "1"}, true},
		{"id3v22 text", map[string]interface{}{"TCP": "1"}, true},
		{"vorbis", map[string]interface{}{"COMPILATION": "true"}, true},
		{"id3 zero", map[string]interface{}{"TCMP": "0"}, false},
		{"absent", map[string]interface{}{"TPE1": "Someone"}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compilationFrame(tt.raw); got != tt.want {
				t.Errorf("compilationFrame(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestScanSkipsUnreadableFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "broken.mp3"), []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	scanner := New(cfg, store, nil)
	report, err := scanner.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if report.FilesSkipped != 1 {
		t.Errorf("skipped = %d, want 1 (non-audio files are not counted)", report.FilesSkipped)
	}
	if report.AlbumsImported != 0 {
		t.Errorf("imported = %d, want 0", report.AlbumsImported)
	}
}

func TestScanRejectsMissingRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	scanner := New(cfg, store, nil)
	if _, err := scanner.Scan(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
