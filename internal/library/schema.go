package library

// Schema changes bump schemaVersion; the database is rebuilt from the music
// directory rather than migrated in place.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS albums (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    title            TEXT NOT NULL,
    album_artist     TEXT NOT NULL DEFAULT '',
    track_count      INTEGER NOT NULL DEFAULT 0,
    compilation_flag INTEGER NOT NULL DEFAULT 0,

    primary_type     TEXT NOT NULL DEFAULT 'album',
    secondary_types  TEXT NOT NULL DEFAULT '',
    state            TEXT NOT NULL DEFAULT 'unclassified',
    override_locked  INTEGER NOT NULL DEFAULT 0,
    override_reason  TEXT NOT NULL DEFAULT '',

    detection_reason TEXT NOT NULL DEFAULT '',
    confidence       REAL NOT NULL DEFAULT 0,
    diversity_ratio  REAL,
    unique_artists   INTEGER,
    dominant_share   REAL,
    release_group_id TEXT NOT NULL DEFAULT '',

    created_at       TEXT NOT NULL,
    updated_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tracks (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    album_id INTEGER NOT NULL REFERENCES albums(id) ON DELETE CASCADE,
    position INTEGER NOT NULL DEFAULT 0,
    title    TEXT NOT NULL DEFAULT '',
    artist   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_albums_state ON albums(state);
CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album_id);
`
