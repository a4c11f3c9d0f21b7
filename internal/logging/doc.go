// Package logging constructs the shared slog logger and provides typed
// attribute helpers so call sites stay terse.
//
// The console handler renders single-line human output; the json handler is
// intended for automation that scrapes analyzer runs. Both honor the same
// level configuration.
package logging
