package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vjoin/internal/concat"
	"vjoin/internal/preflight"
	"vjoin/internal/services"
	"vjoin/internal/session"
)

func newJoinCommand(ctx *commandContext) *cobra.Command {
	var deleteSources bool

	cmd := &cobra.Command{
		Use:   "join [file...]",
		Short: "Join the listed files (or the given files) without re-encoding",
		Long: "Join concatenates the files in list order with ffmpeg's concat demuxer " +
			"and stream copy. The output is written next to the first file as " +
			"<name>-combined.mp4. When files are given on the command line they are " +
			"joined directly and the saved list is left untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			run := func(opCtx context.Context, c *session.Controller) error {
				if cmd.Flags().Changed("delete-sources") {
					settings := c.Execution()
					settings.DeleteSourcesOnSuccess = deleteSources
					c.SetExecution(settings)
				}
				return runJoin(opCtx, cmd, c)
			}

			if len(args) == 0 {
				return ctx.withSession(cmd, "join", run)
			}
			return ctx.withOneShot(cmd, args, run)
		},
	}

	cmd.Flags().BoolVar(&deleteSources, "delete-sources", false, "Delete the source files after a successful join")
	return cmd
}

// withOneShot joins files given on the command line through a throwaway list.
func (c *commandContext) withOneShot(cmd *cobra.Command, args []string, fn func(context.Context, *session.Controller) error) error {
	paths, missing, err := resolveInputs(args)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrNotFound, "join", "", strings.Join(missing, ", "), nil)
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	list, err := newConfiguredList(cfg)
	if err != nil {
		return err
	}
	controller, err := c.newController(cmd, list)
	if err != nil {
		return err
	}
	defer controller.Close()

	ctx := c.operationContext(cmd, "join")
	report := controller.Add(ctx, paths, false)
	if len(report.Skipped) > 0 {
		return services.Wrap(services.ErrValidation, "join", "unsupported files", strings.Join(report.Skipped, ", "), nil)
	}
	return fn(ctx, controller)
}

func runJoin(ctx context.Context, cmd *cobra.Command, c *session.Controller) error {
	order := c.Order()
	if len(order) == 0 {
		return concat.ErrEmptyList
	}
	outputDir := filepath.Dir(concat.OutputPath(order[0]))
	if check := preflight.CheckDirectoryAccess("Output directory", outputDir); !check.Passed {
		return services.Wrap(services.ErrValidation, "join", "output directory", check.Detail, nil)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Joining %s...\n", plural(len(order), "file"))

	result, err := c.Join(ctx)
	if err != nil {
		return err
	}
	p := newStatusPrinter(out)
	p.line("Output", statusOK, result.OutputPath)
	for _, warning := range result.Warnings {
		p.line("Not deleted", statusWarn, fmt.Sprintf("%s (%v)", warning.Path, warning.Err))
	}
	return nil
}
