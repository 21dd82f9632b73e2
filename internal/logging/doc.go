// Package logging builds slog loggers for the CLI and matching pipeline.
//
// Two output formats are supported: a compact console format that lifts the
// component attribute into the message prefix, and plain JSON. Loggers are
// handed to components via logging.WithComponent so every record carries its
// origin.
package logging
