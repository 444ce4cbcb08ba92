// Package probe annotates media files for display: title, duration, video
// codec, and an optional keyframe thumbnail.
//
// Every lookup degrades instead of failing. A missing or broken ffprobe
// yields the file basename, zero duration and an empty codec; a failed
// thumbnail extraction yields no image. The absorbed cause is kept on
// Info.Err so callers can tell "no data" from "error" without the failure
// ever blocking list management.
package probe
