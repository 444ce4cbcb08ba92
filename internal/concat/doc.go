// Package concat plans a no-re-encode join with the ffmpeg concat demuxer.
//
// Build turns a resolved ordering of input paths into a Plan: the directive
// file contents (one `file '<path>'` line per input), a freshly allocated
// temp file holding them, the ffmpeg argument vector, and the output path.
//
// The output path is derived only from the first input:
// <dir>/<stem>-combined.mp4. The argument vector always carries `-c copy`,
// so the streams are copied verbatim and ffmpeg rejects incompatible inputs
// at run time.
package concat
