// Package classify decides whether an album is a single-artist release or a
// various-artists compilation.
//
// Three stateless detectors run as a cascade: the embedded compilation flag,
// album-artist name patterns, and track-artist diversity statistics. The
// Analyzer accepts the first confident verdict, escalates the borderline
// diversity band to external verification, and persists results through the
// library store, which re-checks the manual-override lock on every write.
package classify
