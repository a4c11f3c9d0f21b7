package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NewAlbumParams describes an album being added to the library, typically by
// the tag ingester.
type NewAlbumParams struct {
	Title           string
	AlbumArtist     string
	CompilationFlag bool
	TrackArtists    []string
	TrackTitles     []string
}

// NewAlbum inserts an album together with its track credits.
func (s *Store) NewAlbum(ctx context.Context, params NewAlbumParams) (*Album, error) {
	ctx = ensureContext(ctx)
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, errors.New("album title required")
	}

	now := timestamp(time.Now())
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert album: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO albums (
            title, album_artist, track_count, compilation_flag,
            primary_type, state, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		title,
		strings.TrimSpace(params.AlbumArtist),
		len(params.TrackArtists),
		boolToInt(params.CompilationFlag),
		string(PrimaryAlbum),
		string(StateUnclassified),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert album: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for i, artist := range params.TrackArtists {
		trackTitle := ""
		if i < len(params.TrackTitles) {
			trackTitle = params.TrackTitles[i]
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tracks (album_id, position, title, artist) VALUES (?, ?, ?, ?)`,
			id, i+1, trackTitle, strings.TrimSpace(artist),
		); err != nil {
			return nil, fmt.Errorf("insert track %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert album: %w", err)
	}
	return s.GetByID(ctx, id)
}

const albumColumns = `
    id, title, album_artist, track_count, compilation_flag,
    primary_type, secondary_types, state, override_locked, override_reason,
    detection_reason, confidence, diversity_ratio, unique_artists,
    dominant_share, release_group_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlbum(row rowScanner) (*Album, error) {
	var (
		album          Album
		compilation    int
		overrideLocked int
		secondary      string
		diversityRatio sql.NullFloat64
		uniqueArtists  sql.NullInt64
		dominantShare  sql.NullFloat64
		createdAt      string
		updatedAt      string
	)
	err := row.Scan(
		&album.ID, &album.Title, &album.AlbumArtist, &album.TrackCount, &compilation,
		(*string)(&album.PrimaryType), &secondary, (*string)(&album.State), &overrideLocked, &album.OverrideReason,
		&album.DetectionReason, &album.Confidence, &diversityRatio, &uniqueArtists,
		&dominantShare, &album.ReleaseGroupID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	album.CompilationFlag = compilation != 0
	album.OverrideLocked = overrideLocked != 0
	album.SecondaryTypes = decodeSecondaryTypes(secondary)
	if diversityRatio.Valid {
		v := diversityRatio.Float64
		album.DiversityRatio = &v
	}
	if uniqueArtists.Valid {
		v := int(uniqueArtists.Int64)
		album.UniqueArtists = &v
	}
	if dominantShare.Valid {
		v := dominantShare.Float64
		album.DominantShare = &v
	}
	album.CreatedAt = parseTimestamp(createdAt)
	album.UpdatedAt = parseTimestamp(updatedAt)
	return &album, nil
}

// GetByID fetches an album by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Album, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT`+albumColumns+` FROM albums WHERE id = ?`, id)
	album, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get album %d: %w", id, err)
	}
	return album, nil
}

// TrackArtists returns the credited performer per track, in track order.
func (s *Store) TrackArtists(ctx context.Context, albumID int64) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT artist FROM tracks WHERE album_id = ? ORDER BY position`, albumID)
	if err != nil {
		return nil, fmt.Errorf("query track artists: %w", err)
	}
	defer rows.Close()

	var artists []string
	for rows.Next() {
		var artist string
		if err := rows.Scan(&artist); err != nil {
			return nil, fmt.Errorf("scan track artist: %w", err)
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}

// ListForAnalysis returns albums eligible for a bulk classification run.
// Override-locked albums are always excluded. With onlyUndetected, only
// albums still unclassified are returned; otherwise everything except
// manually overridden and pending-verification albums is revisited.
func (s *Store) ListForAnalysis(ctx context.Context, onlyUndetected bool, minTracks int) ([]*Album, error) {
	ctx = ensureContext(ctx)
	query := `SELECT` + albumColumns + ` FROM albums WHERE override_locked = 0 AND track_count >= ?`
	args := []any{minTracks}
	if onlyUndetected {
		query += ` AND state = ?`
		args = append(args, string(StateUnclassified))
	} else {
		query += ` AND state NOT IN (?, ?)`
		args = append(args, string(StateManualOverride), string(StateBorderlinePending))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list albums for analysis: %w", err)
	}
	defer rows.Close()
	return collectAlbums(rows)
}

// ListBorderline returns pending-verification albums whose diversity ratio
// falls inside [min, max], oldest first, capped at limit.
func (s *Store) ListBorderline(ctx context.Context, minRatio, maxRatio float64, limit int) ([]*Album, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+albumColumns+` FROM albums
         WHERE state = ? AND diversity_ratio IS NOT NULL
           AND diversity_ratio >= ? AND diversity_ratio <= ?
         ORDER BY updated_at
         LIMIT ?`,
		string(StateBorderlinePending), minRatio, maxRatio, limit)
	if err != nil {
		return nil, fmt.Errorf("list borderline albums: %w", err)
	}
	defer rows.Close()
	return collectAlbums(rows)
}

func collectAlbums(rows *sql.Rows) ([]*Album, error) {
	var albums []*Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

// ApplyClassification writes a classification result back to an album. The
// override lock is re-checked inside the transaction; a locked album rejects
// the write with ErrOverrideLocked so in-flight automated results never
// clobber a manual decision.
func (s *Store) ApplyClassification(ctx context.Context, albumID int64, result Classification) error {
	ctx = ensureContext(ctx)
	if !ValidState(result.State) {
		return fmt.Errorf("invalid classification state %q", result.State)
	}
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin classification write: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var locked int
		err = tx.QueryRowContext(ctx, `SELECT override_locked FROM albums WHERE id = ?`, albumID).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAlbumNotFound
		}
		if err != nil {
			return fmt.Errorf("check override lock: %w", err)
		}
		if locked != 0 {
			return ErrOverrideLocked
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE albums SET
                primary_type = ?, secondary_types = ?, state = ?,
                detection_reason = ?, confidence = ?, diversity_ratio = ?,
                unique_artists = ?, dominant_share = ?, release_group_id = ?,
                updated_at = ?
             WHERE id = ?`,
			string(result.PrimaryType),
			encodeSecondaryTypes(result.SecondaryTypes),
			string(result.State),
			result.DetectionReason,
			result.Confidence,
			nullFloat(result.DiversityRatio),
			nullInt(result.UniqueArtists),
			nullFloat(result.DominantShare),
			result.ReleaseGroupID,
			timestamp(time.Now()),
			albumID,
		)
		if err != nil {
			return fmt.Errorf("write classification: %w", err)
		}
		return tx.Commit()
	})
}

// Stats summarizes classification coverage across the corpus.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	err := s.db.QueryRowContext(ctx, `
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN secondary_types LIKE '%compilation%' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN detection_reason = 'pattern_match' THEN 1 ELSE 0 END), 0)
        FROM albums`).Scan(&stats.TotalAlbums, &stats.CompilationAlbums, &stats.VariousArtistsAlbums)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	if stats.TotalAlbums > 0 {
		stats.CompilationPercent = 100 * float64(stats.CompilationAlbums) / float64(stats.TotalAlbums)
	}
	return stats, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
