package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"

	"medley/internal/config"
	"medley/internal/library"
	"medley/internal/logging"
	"medley/internal/services"
)

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".m4b":  {},
	".flac": {},
	".ogg":  {},
	".aiff": {},
	".aif":  {},
}

// trackMeta is the slice of tag data the classifier needs from one file.
type trackMeta struct {
	Path            string
	Album           string
	AlbumArtist     string
	Artist          string
	CompilationFlag bool
}

// Report summarizes one import run.
type Report struct {
	AlbumsImported int
	TracksImported int
	FilesSkipped   int
}

// Scanner walks a music directory and seeds the library with the albums it
// finds. Only the fields the classification pipeline consumes are read; no
// artwork, no per-track titles.
type Scanner struct {
	cfg    *config.Config
	store  *library.Store
	logger *slog.Logger
}

// New constructs a scanner.
func New(cfg *config.Config, store *library.Store, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{cfg: cfg, store: store, logger: logger}
}

// Scan imports every album under root. Unreadable files are skipped and
// counted, never fatal. Root defaults to the configured music directory.
func (s *Scanner) Scan(ctx context.Context, root string) (*Report, error) {
	if root == "" {
		root = s.cfg.Paths.MusicDir
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "ingest", "scan", "music directory", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "ingest", "scan",
			fmt.Sprintf("%s is not a directory", root), nil)
	}

	report := &Report{}
	var tracks []trackMeta
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if _, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		meta, err := s.readTrack(path)
		if err != nil {
			report.FilesSkipped++
			s.logger.Warn("skipping unreadable file",
				logging.String("path", path),
				logging.Error(err))
			return nil
		}
		tracks = append(tracks, meta)
		return nil
	})
	if err != nil {
		return report, services.Wrap(services.ErrValidation, "ingest", "scan", "walk music directory", err)
	}

	for _, params := range groupAlbums(tracks) {
		album, err := s.store.NewAlbum(ctx, params)
		if err != nil {
			return report, services.Wrap(services.ErrPersistence, "ingest", "scan",
				fmt.Sprintf("import %q", params.Title), err)
		}
		report.AlbumsImported++
		report.TracksImported += album.TrackCount
		s.logger.Debug("album imported",
			logging.Int64("album_id", album.ID),
			logging.String("title", album.Title),
			logging.Int("tracks", album.TrackCount),
			logging.Bool("compilation_flag", album.CompilationFlag))
	}

	s.logger.Info("import finished",
		logging.String("root", root),
		logging.Int("albums", report.AlbumsImported),
		logging.Int("tracks", report.TracksImported),
		logging.Int("skipped", report.FilesSkipped))
	return report, nil
}

func (s *Scanner) readTrack(path string) (trackMeta, error) {
	file, err := os.Open(path)
	if err != nil {
		return trackMeta{}, err
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return trackMeta{}, fmt.Errorf("read tags: %w", err)
	}

	album := strings.TrimSpace(metadata.Album())
	if album == "" {
		// Untagged albums group by their containing directory.
		album = filepath.Base(filepath.Dir(path))
	}
	return trackMeta{
		Path:            path,
		Album:           album,
		AlbumArtist:     strings.TrimSpace(metadata.AlbumArtist()),
		Artist:          strings.TrimSpace(metadata.Artist()),
		CompilationFlag: compilationFrame(metadata.Raw()),
	}, nil
}

// groupAlbums buckets tracks into albums keyed by directory and album title,
// so two albums with the same name in different folders stay separate.
func groupAlbums(tracks []trackMeta) []library.NewAlbumParams {
	type bucket struct {
		params library.NewAlbumParams
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, track := range tracks {
		key := filepath.Dir(track.Path) + "\x00" + track.Album
		entry, ok := buckets[key]
		if !ok {
			entry = &bucket{params: library.NewAlbumParams{Title: track.Album}}
			buckets[key] = entry
			order = append(order, key)
		}
		if entry.params.AlbumArtist == "" {
			entry.params.AlbumArtist = track.AlbumArtist
		}
		// One flagged track marks the whole album.
		if track.CompilationFlag {
			entry.params.CompilationFlag = true
		}
		artist := track.Artist
		if artist == "" {
			artist = track.AlbumArtist
		}
		entry.params.TrackArtists = append(entry.params.TrackArtists, artist)
	}

	sort.Strings(order)
	albums := make([]library.NewAlbumParams, 0, len(buckets))
	for _, key := range order {
		albums = append(albums, buckets[key].params)
	}
	return albums
}

// compilationFrame reads the embedded compilation marker: cpil for MP4,
// TCMP or TCP for ID3, COMPILATION for Vorbis comments.
func compilationFrame(raw map[string]interface{}) bool {
	if raw == nil {
		return false
	}
	for _, key := range []string{"cpil", "TCMP", "TCP", "COMPILATION", "compilation"} {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if truthyFrame(value) {
			return true
		}
	}
	return false
}

func truthyFrame(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case uint8:
		return v != 0
	case string:
		v = strings.TrimSpace(strings.ToLower(v))
		return v == "1" || v == "true" || v == "yes"
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", value)) == "1"
	}
}
