package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vjoin/internal/logging"
	"vjoin/internal/media/ffprobe"
	"vjoin/internal/media/probe"
	"vjoin/internal/services"
)

type inspectOutput struct {
	Path            string          `json:"path"`
	Title           string          `json:"title"`
	DurationSeconds float64         `json:"duration_seconds"`
	Codec           string          `json:"codec"`
	Thumbnail       string          `json:"thumbnail,omitempty"`
	Details         *ffprobe.Result `json:"details,omitempty"`
	ProbeError      string          `json:"probe_error,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var thumbnail bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show media information for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, missing, err := resolveInputs(args)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return services.Wrap(services.ErrNotFound, "inspect", "", missing[0], nil)
			}
			path := paths[0]

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opCtx := ctx.operationContext(cmd, "inspect")
			prober := ctx.newProber(cfg)

			info := prober.Probe(opCtx, path)
			result := inspectOutput{
				Path:            path,
				Title:           info.Title,
				DurationSeconds: info.DurationSeconds,
				Codec:           info.Codec,
			}
			if info.Err != nil {
				result.ProbeError = info.Err.Error()
			}
			if details, err := ffprobe.Inspect(opCtx, cfg.Execution().ProbeBinaryPath, path); err == nil {
				result.Details = &details
			} else {
				logging.WithContext(opCtx, ctx.ensureLogger()).Debug("detailed inspection failed", logging.Error(err))
			}
			if thumbnail {
				if thumb, ok := prober.Thumbnail(opCtx, path); ok {
					result.Thumbnail = thumb
				}
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			renderInspect(cmd, result, thumbnail)
			return nil
		},
	}

	cmd.Flags().BoolVar(&thumbnail, "thumbnail", false, "Extract a keyframe thumbnail and print its location")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderInspect(cmd *cobra.Command, result inspectOutput, wantThumbnail bool) {
	out := cmd.OutOrStdout()
	p := newStatusPrinter(out)

	p.line("Title", statusInfo, result.Title)
	p.line("Duration", statusInfo, probe.FormatDuration(result.DurationSeconds))
	p.line("Video codec", statusInfo, firstNonEmpty(result.Codec, "unknown"))
	if result.ProbeError != "" {
		p.line("Probe", statusWarn, result.ProbeError)
	}
	if wantThumbnail {
		if result.Thumbnail != "" {
			p.line("Thumbnail", statusOK, result.Thumbnail)
		} else {
			p.line("Thumbnail", statusWarn, "no keyframe extracted")
		}
	}

	details := result.Details
	if details == nil {
		return
	}
	if size := details.SizeBytes(); size > 0 {
		p.line("Size", statusInfo, humanize.Bytes(uint64(size)))
	}
	if rate := details.BitRate(); rate > 0 {
		p.line("Bit rate", statusInfo, humanize.SI(float64(rate), "bit/s"))
	}
	if details.Format.FormatName != "" {
		p.line("Container", statusInfo, details.Format.FormatName)
	}
	if len(details.Streams) == 0 {
		return
	}
	rows := make([][]string, 0, len(details.Streams))
	for _, stream := range details.Streams {
		rows = append(rows, []string{
			strconv.Itoa(stream.Index),
			stream.CodecType,
			stream.CodecName,
			stream.Language(),
			streamShape(stream),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Type", "Codec", "Lang", "Details"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}

func streamShape(stream ffprobe.Stream) string {
	switch stream.CodecType {
	case "video":
		if stream.Width > 0 && stream.Height > 0 {
			return fmt.Sprintf("%dx%d @ %s", stream.Width, stream.Height, stream.FrameRate)
		}
	case "audio":
		if stream.Channels > 0 {
			return fmt.Sprintf("%d ch, %s Hz", stream.Channels, stream.SampleRate)
		}
	}
	return ""
}
