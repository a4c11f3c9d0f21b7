package services

import "context"

type contextKey string

const (
	albumIDKey   contextKey = "album_id"
	requestIDKey contextKey = "request_id"
)

// WithAlbumID annotates context with the album identifier being processed.
func WithAlbumID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, albumIDKey, id)
}

// AlbumIDFromContext extracts the album identifier if present.
func AlbumIDFromContext(ctx context.Context) (int64, bool) {
	switch val := ctx.Value(albumIDKey).(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithRequestID annotates context with a correlation identifier for a run.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
