// Package logging assembles structured slog loggers for subfetch.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (console to stderr, optional JSON copy under the log directory), plus
// context helpers that tag lines with the correlation ID of the current run.
// A no-op logger is provided for tests and library callers.
package logging
