package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"vjoin/internal/medialist"
	"vjoin/internal/session"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var locale string
	var byTitle bool
	var reverse bool

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort files by name using locale-aware collation",
		Long: "Sort orders the listed files by file name (or title with --by-title). " +
			"Digits compare numerically, so part2 sorts before part10. " +
			"Empty placeholder slots move to the end.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := resolveLocale(locale)
			col := collate.New(tag, collate.Numeric, collate.IgnoreCase)
			key := func(e *medialist.Entry) string { return filepath.Base(e.Path) }
			if byTitle {
				key = func(e *medialist.Entry) string { return e.Title }
			}

			return ctx.withSession(cmd, "sort", func(_ context.Context, c *session.Controller) error {
				perm := sortPermutation(c.Slots(), col, key, reverse)
				if err := c.Reorder(perm); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sorted %s (%s)\n", plural(len(c.Order()), "file"), tag)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Collation locale (defaults to LC_ALL, LC_COLLATE or LANG)")
	cmd.Flags().BoolVar(&byTitle, "by-title", false, "Sort by media title instead of file name")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Sort in descending order")
	return cmd
}

// sortPermutation orders occupied slots by key and keeps placeholders, in
// their current relative order, after them.
func sortPermutation(slots []medialist.Slot, col *collate.Collator, key func(*medialist.Entry) string, reverse bool) []int {
	occupied := make([]int, 0, len(slots))
	empty := make([]int, 0)
	for i, slot := range slots {
		if slot.Empty() {
			empty = append(empty, i)
			continue
		}
		occupied = append(occupied, i)
	}
	slices.SortStableFunc(occupied, func(a, b int) int {
		cmp := col.CompareString(key(slots[a].Entry), key(slots[b].Entry))
		if reverse {
			return -cmp
		}
		return cmp
	})
	return append(occupied, empty...)
}

// resolveLocale parses an explicit locale or the POSIX locale environment
// (en_US.UTF-8 style). Unparseable or C/POSIX locales fall back to the root
// collation order.
func resolveLocale(explicit string) language.Tag {
	value := strings.TrimSpace(explicit)
	if value == "" {
		for _, name := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
			if v := strings.TrimSpace(os.Getenv(name)); v != "" {
				value = v
				break
			}
		}
	}
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "" || value == "C" || value == "POSIX" {
		return language.Und
	}
	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}
