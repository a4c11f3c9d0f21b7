package testsupport

import (
	"context"
	"testing"

	"medley/internal/config"
	"medley/internal/library"
)

// MustOpenStore opens a library store for the test config and closes it on
// cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("open library store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close library store: %v", err)
		}
	})
	return store
}

// SeedAlbum inserts an album with the given per-track credits.
func SeedAlbum(t testing.TB, store *library.Store, title, albumArtist string, compilationFlag bool, trackArtists []string) *library.Album {
	t.Helper()

	album, err := store.NewAlbum(context.Background(), library.NewAlbumParams{
		Title:           title,
		AlbumArtist:     albumArtist,
		CompilationFlag: compilationFlag,
		TrackArtists:    trackArtists,
	})
	if err != nil {
		t.Fatalf("seed album %q: %v", title, err)
	}
	return album
}

// RepeatArtist returns count copies of the same artist credit.
func RepeatArtist(artist string, count int) []string {
	artists := make([]string, count)
	for i := range artists {
		artists[i] = artist
	}
	return artists
}
