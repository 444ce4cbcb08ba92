// Package ffprobe wraps the ffprobe command-line tool.
//
// Two styles of query are supported:
//   - Query: plain-text `default=noprint_wrappers=1:nokey=1` output, one value
//     per line, used for the cheap per-file duration/title/codec lookups.
//   - Inspect: full JSON stream and format listing used by `vjoin inspect`.
//
// The package has no vjoin-specific dependencies.
package ffprobe
