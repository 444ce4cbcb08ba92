// Package main hosts the vjoin CLI entrypoint and command graph.
//
// vjoin keeps an ordered list of video files between invocations and joins
// them into one file with ffmpeg's concat demuxer, copying streams without
// re-encoding. Each command loads the persisted list under an exclusive
// lock, applies one operation through the session controller and saves the
// result.
//
// Keep this package lean: list, planning and execution semantics live in the
// internal packages; commands here only parse arguments and render output.
package main
