package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vjoin/internal/services"
)

// parseSlotNumber converts a 1-based slot argument into a list index.
func parseSlotNumber(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, services.Wrap(services.ErrValidation, "cli", "", fmt.Sprintf("invalid slot number %q", arg), nil)
	}
	return n - 1, nil
}

// resolveInputs converts args to absolute paths and splits off the ones that
// are not regular files.
func resolveInputs(args []string) (paths []string, missing []string, err error) {
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve path %q: %w", arg, err)
		}
		info, statErr := os.Stat(abs)
		switch {
		case errors.Is(statErr, fs.ErrNotExist):
			missing = append(missing, abs)
		case statErr != nil:
			return nil, nil, fmt.Errorf("inspect %s: %w", abs, statErr)
		case info.IsDir():
			missing = append(missing, abs)
		default:
			paths = append(paths, abs)
		}
	}
	return paths, missing, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	return err
}
