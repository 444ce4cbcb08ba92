// Package join runs a concat plan through ffmpeg and applies the
// post-success source deletion policy.
//
// Execution is synchronous and never retried. The plan's directive file is
// removed on every path, success or failure. Source deletion happens only
// after the tool exits zero; each file that cannot be removed is reported as
// a DeletionWarning and the remaining files are still attempted.
package join
