package library

import "errors"

// ErrAlbumNotFound is returned when no album exists for the given id.
var ErrAlbumNotFound = errors.New("album not found")

// ErrOverrideLocked is returned when a classification write is discarded
// because a manual override owns the album.
var ErrOverrideLocked = errors.New("album is override-locked")
