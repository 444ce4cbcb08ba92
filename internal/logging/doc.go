// Package logging assembles structured slog loggers and formatting helpers
// used across vjoin.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so command code can tag log
// lines with the invocation session id and operation name. A no-op logger is
// provided for tests and library callers that do not care about output.
package logging
