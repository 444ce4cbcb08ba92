package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vjoin/internal/session"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Preview the ffmpeg command and concat list without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, "plan", func(_ context.Context, c *session.Controller) error {
				plan, err := c.Preview()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				p := newStatusPrinter(out)

				p.section("Command")
				fmt.Fprintln(out, plan.CommandLine())
				p.blank()
				p.section("Concat list")
				fmt.Fprint(out, plan.DirectiveContents)
				p.blank()
				p.line("Output", statusInfo, plan.OutputPath)
				p.line("Delete sources", statusInfo, yesNo(c.Execution().DeleteSourcesOnSuccess))
				return nil
			})
		},
	}
}
