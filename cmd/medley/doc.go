// Command medley imports a music library, classifies albums as regular
// releases or various-artists compilations, and resolves borderline cases
// against MusicBrainz.
package main
