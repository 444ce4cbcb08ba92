package join

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"vjoin/internal/concat"
	"vjoin/internal/config"
	"vjoin/internal/logging"
	"vjoin/internal/services"
)

// ErrToolFailure reports that the concat tool could not be started or exited
// with a nonzero status.
var ErrToolFailure = fmt.Errorf("%w: concatenation failed", services.ErrExternalTool)

var errSourceIsOutput = errors.New("source is the join output")

// DeletionWarning records a source file that could not be removed after a
// successful join.
type DeletionWarning struct {
	Path string
	Err  error
}

func (w DeletionWarning) String() string {
	return fmt.Sprintf("could not delete %s: %v", w.Path, w.Err)
}

// Result describes a completed join.
type Result struct {
	OutputPath string
	Elapsed    time.Duration
	Warnings   []DeletionWarning
}

// Executor runs concat plans. Stdout and Stderr, when set, receive the tool's
// output streams.
type Executor struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecutor returns an executor that logs under the join component.
func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{Logger: logging.NewComponentLogger(logger, "join")}
}

// Execute runs plan.InvocationArgs and waits for it to finish. On success,
// and when cfg.DeleteSourcesOnSuccess is set, each input is removed in order.
// The directive file is removed before Execute returns.
func (e *Executor) Execute(ctx context.Context, plan *concat.Plan, cfg config.ExecutionConfig) (Result, error) {
	if plan == nil {
		return Result{}, concat.ErrEmptyList
	}
	logger := logging.WithContext(ctx, e.logger())
	defer func() {
		if err := plan.Discard(); err != nil {
			logging.WarnWithContext(logger, "directive file not removed", "directive_cleanup_failed",
				logging.String("directive", plan.DirectivePath),
				logging.Error(err),
				logging.String(logging.FieldImpact, "a temporary file remains in the temp directory"),
			)
		}
	}()
	if len(plan.InvocationArgs) == 0 || len(plan.Inputs) == 0 {
		return Result{}, concat.ErrEmptyList
	}

	args := plan.InvocationArgs
	logger.Info("concatenation started",
		logging.Int("inputs", len(plan.Inputs)),
		logging.String("output", plan.OutputPath),
	)
	logger.Debug("concat command", logging.String("command", plan.CommandLine()))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = e.Stdout
	cmd.Stderr = &stderr
	if e.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, e.Stderr)
	}

	start := time.Now()
	if err := cmd.Run(); err != nil {
		logger.Debug("concat tool stderr", logging.String("stderr", lastLine(stderr.String())))
		logging.ErrorWithContext(logger, "concatenation failed", "concat_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inputs must share codecs and stream layout for a stream copy"),
		)
		return Result{}, services.Wrap(ErrToolFailure, "join", filepath.Base(args[0]), "", err)
	}

	result := Result{OutputPath: plan.OutputPath, Elapsed: time.Since(start)}
	logger.Info("concatenation finished",
		logging.String("output", result.OutputPath),
		logging.Duration("elapsed", result.Elapsed),
	)

	if cfg.DeleteSourcesOnSuccess {
		result.Warnings = e.deleteSources(logger, plan)
	}
	return result, nil
}

func (e *Executor) deleteSources(logger *slog.Logger, plan *concat.Plan) []DeletionWarning {
	var warnings []DeletionWarning
	for _, path := range plan.Inputs {
		if filepath.Clean(path) == filepath.Clean(plan.OutputPath) {
			warnings = append(warnings, DeletionWarning{Path: path, Err: errSourceIsOutput})
			continue
		}
		if err := os.Remove(path); err != nil {
			warnings = append(warnings, DeletionWarning{Path: path, Err: err})
			continue
		}
		logger.Debug("source deleted", logging.String("path", path))
	}
	for _, warning := range warnings {
		logging.WarnWithContext(logger, "source file not deleted", "source_delete_failed",
			logging.String("path", warning.Path),
			logging.Error(warning.Err),
			logging.String(logging.FieldImpact, "source file remains on disk; the joined output is intact"),
		)
	}
	return warnings
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.NewNop()
	}
	return e.Logger
}

func lastLine(output string) string {
	var last string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	return last
}
