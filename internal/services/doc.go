// Package services defines shared utilities consumed by the join pipeline and
// the command-line front end.
//
// Key responsibilities:
//   - Context helpers that stamp session identifiers and operation names for
//     logging.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (validation vs external tool) without string matching.
//
// Use these helpers when wiring new operations so error reporting and
// observability stay uniform across packages.
package services
