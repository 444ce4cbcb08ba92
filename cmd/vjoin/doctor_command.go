package main

import (
	"strings"

	"github.com/spf13/cobra"

	"vjoin/internal/deps"
	"vjoin/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check ffmpeg, ffprobe and the state directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opCtx := ctx.operationContext(cmd, "doctor")
			p := newStatusPrinter(cmd.OutOrStdout())

			p.section("Checks")
			printChecks(p, preflight.RunAll(opCtx, cfg))

			p.blank()
			p.section("Versions")
			settings := cfg.Execution()
			for _, tool := range []struct{ name, command string }{
				{"FFmpeg", settings.ToolBinaryPath},
				{"FFprobe", settings.ProbeBinaryPath},
			} {
				if version, err := deps.Version(opCtx, tool.command); err == nil {
					p.line(tool.name, statusInfo, version)
				} else {
					p.line(tool.name, statusWarn, "unknown")
				}
			}

			p.blank()
			p.section("Configuration")
			configPath := ctx.configPath
			if configPath == "" {
				configPath = "(defaults)"
			}
			p.line("Config file", statusInfo, configPath)
			p.line("Session", statusInfo, cfg.SessionDBPath())
			p.line("Manual override", statusInfo, yesNo(cfg.Tools.ManualOverride))
			p.line("Insert policy", statusInfo, cfg.Join.InsertPolicy)
			return nil
		},
	}
}

// printChecks writes one line per check and a summary naming the required
// checks that failed. Optional failures are warnings only.
func printChecks(p *statusPrinter, results []preflight.Result) {
	for _, result := range results {
		detail := strings.TrimSpace(result.Detail)
		switch {
		case result.Passed:
			p.line(result.Name, statusOK, detail)
		case result.Optional:
			p.line(result.Name, statusWarn, firstNonEmpty(detail, "not available"))
		default:
			p.line(result.Name, statusError, firstNonEmpty(detail, "not available"))
		}
	}
	failed := preflight.Failed(results)
	if len(failed) == 0 {
		p.line("Summary", statusOK, "ready to join")
		return
	}
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		names = append(names, r.Name)
	}
	p.line("Summary", statusError, "failing: "+strings.Join(names, ", "))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
