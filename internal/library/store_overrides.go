package library

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SetOverride pins an album to a manual compilation decision. The album is
// locked against automated re-classification until ClearOverride. The call
// is idempotent: repeating the same decision is a no-op beyond the timestamp.
func (s *Store) SetOverride(ctx context.Context, albumID int64, isCompilation bool, reason string) error {
	ctx = ensureContext(ctx)
	album, err := s.GetByID(ctx, albumID)
	if err != nil {
		return err
	}

	secondary := make([]SecondaryType, 0, len(album.SecondaryTypes)+1)
	for _, tag := range album.SecondaryTypes {
		if tag == SecondaryCompilation {
			continue
		}
		secondary = append(secondary, tag)
	}
	if isCompilation {
		secondary = append(secondary, SecondaryCompilation)
	}

	res, err := s.execWithRetry(ctx,
		`UPDATE albums SET
            secondary_types = ?, state = ?, override_locked = 1,
            override_reason = ?, detection_reason = ?, confidence = 1.0,
            updated_at = ?
         WHERE id = ?`,
		encodeSecondaryTypes(secondary),
		string(StateManualOverride),
		strings.TrimSpace(reason),
		"manual_override",
		timestamp(time.Now()),
		albumID,
	)
	if err != nil {
		return fmt.Errorf("set override: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

// ClearOverride releases the manual lock and returns the album to the
// unclassified pool so the next analysis run revisits it.
func (s *Store) ClearOverride(ctx context.Context, albumID int64) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx,
		`UPDATE albums SET
            state = ?, override_locked = 0, override_reason = '',
            detection_reason = '', confidence = 0, updated_at = ?
         WHERE id = ?`,
		string(StateUnclassified),
		timestamp(time.Now()),
		albumID,
	)
	if err != nil {
		return fmt.Errorf("clear override: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

// OverrideLocked reports whether the album is pinned by a manual override.
func (s *Store) OverrideLocked(ctx context.Context, albumID int64) (bool, error) {
	album, err := s.GetByID(ctx, albumID)
	if err != nil {
		return false, err
	}
	return album.OverrideLocked, nil
}
