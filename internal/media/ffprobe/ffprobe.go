package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// InspectArgs requests every stream and the container block as JSON.
var InspectArgs = []string{
	"-v", "error",
	"-hide_banner",
	"-show_format",
	"-show_streams",
	"-of", "json",
	"--",
}

// Result is the decoded JSON document of an inspection run.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

type Stream struct {
	Index      int               `json:"index"`
	CodecName  string            `json:"codec_name"`
	CodecType  string            `json:"codec_type"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	FrameRate  string            `json:"r_frame_rate"`
	SampleRate string            `json:"sample_rate"`
	Channels   int               `json:"channels"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// Language returns the stream's language tag, or "" when untagged or "und".
func (s Stream) Language() string {
	lang := strings.TrimSpace(s.Tags["language"])
	if strings.EqualFold(lang, "und") {
		return ""
	}
	return lang
}

type Format struct {
	Filename   string            `json:"filename"`
	NBStreams  int               `json:"nb_streams"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	FormatName string            `json:"format_name"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// Inspect runs ffprobe with InspectArgs against path and decodes the report.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	argv := append(append([]string{}, InspectArgs...), path)
	stdout, err := run(ctx, binary, argv)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result Result
	if err := json.Unmarshal(stdout, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: decode report: %w", err)
	}
	return result, nil
}

// StreamsOfType returns the streams whose codec_type matches, in file order.
func (r Result) StreamsOfType(codecType string) []Stream {
	var matched []Stream
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, codecType) {
			matched = append(matched, stream)
		}
	}
	return matched
}

// DurationSeconds returns the container duration, or 0 when it is missing
// or not a valid duration.
func (r Result) DurationSeconds() float64 {
	seconds, err := ParseDuration(r.Format.Duration)
	if err != nil {
		return 0
	}
	return seconds
}

// SizeBytes returns the container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	return parseCount(r.Format.Size)
}

// BitRate returns the container bit rate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	return parseCount(r.Format.BitRate)
}

func parseCount(value string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
