// Package ingest seeds the library from a music directory. It reads only the
// tag fields the classification pipeline consumes: album title, album artist,
// per-track artist credits, and the embedded compilation frame.
package ingest
