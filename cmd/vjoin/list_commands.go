package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vjoin/internal/media/probe"
	"vjoin/internal/medialist"
	"vjoin/internal/session"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var thumbnails bool

	cmd := &cobra.Command{
		Use:   "add <file>...",
		Short: "Add video files to the join list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, missing, err := resolveInputs(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			withThumbnails := thumbnails || cfg.Join.Thumbnails

			return ctx.withSession(cmd, "add", func(opCtx context.Context, c *session.Controller) error {
				report := c.Add(opCtx, paths, withThumbnails)
				out := cmd.OutOrStdout()
				for _, path := range report.Added {
					fmt.Fprintf(out, "Added %s\n", path)
				}
				for _, path := range report.Duplicates {
					fmt.Fprintf(out, "Already listed: %s\n", path)
				}
				for _, path := range report.Skipped {
					fmt.Fprintf(out, "Skipped unsupported file: %s\n", path)
				}
				for _, path := range missing {
					fmt.Fprintf(out, "Skipped missing file: %s\n", path)
				}
				for _, path := range report.Degraded {
					fmt.Fprintf(out, "Could not read media info for %s\n", path)
				}
				fmt.Fprintf(out, "%s in the list\n", plural(len(c.Order()), "file"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&thumbnails, "thumbnails", false, "Extract a keyframe thumbnail for each file")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the join list, placeholders included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, "list", func(_ context.Context, c *session.Controller) error {
				out := cmd.OutOrStdout()
				slots := c.Slots()
				if len(slots) == 0 {
					fmt.Fprintln(out, "The list is empty")
					return nil
				}
				fmt.Fprintln(out, renderSlots(slots))
				fmt.Fprintf(out, "Policy: %s · %s\n", c.Policy(), plural(len(c.Order()), "file"))
				return nil
			})
		},
	}
}

func renderSlots(slots []medialist.Slot) string {
	rows := make([][]string, 0, len(slots))
	var total float64
	for i, slot := range slots {
		if slot.Empty() {
			rows = append(rows, []string{strconv.Itoa(i + 1), "(empty)", "", "", "", ""})
			continue
		}
		entry := slot.Entry
		total += entry.DurationSeconds
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			entry.Title,
			probe.FormatDuration(entry.DurationSeconds),
			entry.Codec,
			yesNo(entry.Thumbnail != ""),
			entry.Path,
		})
	}
	return tableSpec{
		headers: []string{"#", "Title", "Duration", "Codec", "Thumb", "Path"},
		aligns:  []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
		rows:    rows,
		footer:  []string{"", "Total", probe.FormatDuration(total)},
	}.render()
}

func newMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move a slot to a new position (1-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseSlotNumber(args[0])
			if err != nil {
				return err
			}
			to, err := parseSlotNumber(args[1])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, "move", func(_ context.Context, c *session.Controller) error {
				if err := c.Move(from, to); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved slot %d to %d\n", from+1, to+1)
				return nil
			})
		},
	}
}

func newReorderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <slot>...",
		Short: "Reorder every slot at once",
		Long: "Reorder takes the current slot numbers in their new order. " +
			"Every slot, placeholders included, must appear exactly once: " +
			"`vjoin reorder 3 1 2` puts the third slot first.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			perm := make([]int, 0, len(args))
			for _, arg := range args {
				idx, err := parseSlotNumber(arg)
				if err != nil {
					return err
				}
				perm = append(perm, idx)
			}
			return ctx.withSession(cmd, "reorder", func(_ context.Context, c *session.Controller) error {
				if err := c.Reorder(perm); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "List reordered")
				return nil
			})
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <slot>",
		Short: "Remove the file in a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseSlotNumber(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, "remove", func(_ context.Context, c *session.Controller) error {
				var path string
				if slots := c.Slots(); idx < len(slots) && !slots[idx].Empty() {
					path = slots[idx].Entry.Path
				}
				if err := c.Remove(idx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", path)
				return nil
			})
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the list and delete extracted thumbnails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, "clear", func(_ context.Context, c *session.Controller) error {
				c.Clear()
				fmt.Fprintln(cmd.OutOrStdout(), "List cleared")
				return nil
			})
		},
	}
}
