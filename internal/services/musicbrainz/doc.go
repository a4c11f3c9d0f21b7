// Package musicbrainz queries the MusicBrainz ws/2 release-group search
// endpoint to confirm or refute borderline compilation guesses. The client
// paces outbound requests to respect the public API's one request per
// second limit and retries transient failures with exponential backoff.
package musicbrainz
