package ffprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// FormatArgs requests the container duration and title tag.
var FormatArgs = []string{
	"-v", "error",
	"-show_entries", "format=duration:format_tags=title",
	"-of", "default=noprint_wrappers=1:nokey=1",
}

// StreamCodecArgs requests the codec name of the first video stream.
var StreamCodecArgs = []string{
	"-v", "error",
	"-select_streams", "v:0",
	"-show_entries", "stream=codec_name",
	"-of", "default=noprint_wrappers=1:nokey=1",
}

// ErrNoOutput reports a query that exited cleanly but printed nothing.
var ErrNoOutput = errors.New("ffprobe query: no output")

// Query runs `<binary> <args...> <path>` and returns the trimmed, non-empty
// stdout lines.
func Query(ctx context.Context, binary, path string, args ...string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("ffprobe query: empty path")
	}

	argv := make([]string, 0, len(args)+1)
	argv = append(argv, args...)
	argv = append(argv, path)

	stdout, err := run(ctx, binary, argv)
	if err != nil {
		return nil, fmt.Errorf("ffprobe query: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(stdout), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return nil, ErrNoOutput
	}
	return lines, nil
}

// ParseDuration parses a duration value in seconds. Negative, NaN and
// infinite values are rejected.
func ParseDuration(value string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", value, err)
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
		return 0, fmt.Errorf("parse duration %q: out of range", value)
	}
	return parsed, nil
}

// run executes binary with argv and returns stdout. A failed run carries the
// tool's trimmed stderr in the error.
func run(ctx context.Context, binary string, argv []string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, defaultBinary(binary), argv...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func defaultBinary(binary string) string {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return "ffprobe"
	}
	return binary
}
