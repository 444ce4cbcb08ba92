package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"vjoin/internal/logging"
	"vjoin/internal/media/ffprobe"
)

// ThumbnailFilter selects the third keyframe (I-frame) of the video.
const ThumbnailFilter = `select='eq(pict_type\,I)',select='eq(n\,2)'`

// Info holds the display annotations for one file.
type Info struct {
	Title           string
	DurationSeconds float64
	Codec           string
	// Err records why a lookup degraded; nil when every query succeeded.
	Err error
}

// Prober runs ffprobe/ffmpeg to annotate files. The zero value uses the bare
// command names resolved via PATH.
type Prober struct {
	FFprobe string
	FFmpeg  string
	Logger  *slog.Logger
}

// New returns a prober for the given binaries.
func New(ffprobeBinary, ffmpegBinary string, logger *slog.Logger) *Prober {
	return &Prober{
		FFprobe: ffprobeBinary,
		FFmpeg:  ffmpegBinary,
		Logger:  logging.NewComponentLogger(logger, "probe"),
	}
}

// Probe returns the title, duration and video codec of path. It never fails:
// lookups that cannot be completed fall back to the basename, zero duration
// and an empty codec.
func (p *Prober) Probe(ctx context.Context, path string) Info {
	info := Info{Title: filepath.Base(path)}

	var errs []error
	if lines, err := ffprobe.Query(ctx, p.FFprobe, path, ffprobe.FormatArgs...); err != nil {
		errs = append(errs, fmt.Errorf("format query: %w", err))
	} else {
		if duration, err := ffprobe.ParseDuration(lines[0]); err != nil {
			errs = append(errs, err)
		} else {
			info.DurationSeconds = duration
		}
		if len(lines) > 1 {
			info.Title = lines[1]
		}
	}

	if lines, err := ffprobe.Query(ctx, p.FFprobe, path, ffprobe.StreamCodecArgs...); err != nil {
		errs = append(errs, fmt.Errorf("codec query: %w", err))
	} else {
		info.Codec = lines[0]
	}

	info.Err = errors.Join(errs...)
	if info.Err != nil {
		p.logger().Debug("probe degraded to defaults",
			logging.String("path", path),
			logging.Error(info.Err),
		)
	}
	return info
}

// Thumbnail extracts the third keyframe of path into a new temp JPEG and
// returns its location. The caller owns the file. On any failure the temp
// file is removed and ok is false.
func (p *Prober) Thumbnail(ctx context.Context, path string) (string, bool) {
	file, err := os.CreateTemp("", "vjoin-thumb-*.jpg")
	if err != nil {
		p.logger().Debug("thumbnail temp file unavailable", logging.Error(err))
		return "", false
	}
	thumbPath := file.Name()
	_ = file.Close()

	cmd := exec.CommandContext(ctx, p.ffmpeg(),
		"-y",
		"-i", path,
		"-vf", ThumbnailFilter,
		"-vsync", "vfr",
		"-frames:v", "1",
		thumbPath,
	)
	runErr := cmd.Run()
	if runErr == nil {
		if stat, statErr := os.Stat(thumbPath); statErr == nil && stat.Size() > 0 {
			return thumbPath, true
		}
		runErr = errors.New("no frame written")
	}

	_ = os.Remove(thumbPath)
	p.logger().Debug("thumbnail extraction failed",
		logging.String("path", path),
		logging.Error(runErr),
	)
	return "", false
}

func (p *Prober) ffmpeg() string {
	if p.FFmpeg == "" {
		return "ffmpeg"
	}
	return p.FFmpeg
}

func (p *Prober) logger() *slog.Logger {
	if p.Logger == nil {
		return logging.NewNop()
	}
	return p.Logger
}
