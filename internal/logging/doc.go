// Package logging assembles structured slog loggers for the identigraph CLI.
//
// It owns the console and JSON handlers, mirrors output into a JSON log file,
// tags records with the invocation's session id and exposes helpers that give
// warnings a consistent shape (event type, hint, impact). A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
