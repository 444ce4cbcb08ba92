package session

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"vjoin/internal/concat"
	"vjoin/internal/config"
	"vjoin/internal/join"
	"vjoin/internal/logging"
	"vjoin/internal/media/probe"
	"vjoin/internal/medialist"
)

// SupportedExtensions lists the file extensions accepted by Add, lowercase.
var SupportedExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}

// Prober annotates media files.
type Prober interface {
	Probe(ctx context.Context, path string) probe.Info
	Thumbnail(ctx context.Context, path string) (string, bool)
}

// Runner executes a concat plan.
type Runner interface {
	Execute(ctx context.Context, plan *concat.Plan, cfg config.ExecutionConfig) (join.Result, error)
}

// AddReport summarizes one Add call.
type AddReport struct {
	Added      []string
	Skipped    []string
	Duplicates []string
	// Degraded lists added files whose probe fell back to defaults.
	Degraded []string
}

// Controller coordinates the list, prober and join executor.
type Controller struct {
	list   *medialist.List
	prober Prober
	runner Runner
	exec   config.ExecutionConfig
	logger *slog.Logger
}

// New builds a controller around list. A nil runner uses a join.Executor.
func New(list *medialist.List, prober Prober, runner Runner, cfg config.ExecutionConfig, logger *slog.Logger) *Controller {
	logger = logging.NewComponentLogger(logger, "session")
	if runner == nil {
		runner = join.NewExecutor(logger)
	}
	return &Controller{
		list:   list,
		prober: prober,
		runner: runner,
		exec:   cfg,
		logger: logger,
	}
}

// SetExecution replaces the execution settings used by Preview and Join.
func (c *Controller) SetExecution(cfg config.ExecutionConfig) {
	c.exec = cfg
}

// Execution returns the current execution settings.
func (c *Controller) Execution() config.ExecutionConfig {
	return c.exec
}

// Slots returns a snapshot of the list, placeholders included.
func (c *Controller) Slots() []medialist.Slot {
	return c.list.Slots()
}

// Order returns the resolved join order.
func (c *Controller) Order() []string {
	return c.list.ResolvedOrder()
}

// Policy returns the insertion policy of the underlying list.
func (c *Controller) Policy() medialist.Policy {
	return c.list.Policy()
}

// Add probes each supported path and places it according to the list
// policy. Unsupported extensions are skipped and, under the append-dedup
// policy, paths already listed are reported as duplicates.
func (c *Controller) Add(ctx context.Context, paths []string, withThumbnails bool) AddReport {
	logger := logging.WithContext(ctx, c.logger)
	var report AddReport
	for _, path := range paths {
		if !Supported(path) {
			report.Skipped = append(report.Skipped, path)
			continue
		}
		if c.list.Policy() == medialist.PolicyAppendDedup && c.list.Contains(path) {
			report.Duplicates = append(report.Duplicates, path)
			continue
		}

		info := c.prober.Probe(ctx, path)
		entry := medialist.Entry{
			Path:            path,
			Title:           info.Title,
			DurationSeconds: info.DurationSeconds,
			Codec:           info.Codec,
		}
		if withThumbnails {
			if thumb, ok := c.prober.Thumbnail(ctx, path); ok {
				entry.Thumbnail = thumb
			}
		}
		c.list.Add(entry)
		report.Added = append(report.Added, path)
		if info.Err != nil {
			report.Degraded = append(report.Degraded, path)
		}
	}
	if len(report.Skipped) > 0 {
		logging.WarnWithContext(logger, "unsupported files skipped", "unsupported_extension",
			logging.Int("count", len(report.Skipped)),
			logging.String("supported", strings.Join(SupportedExtensions, " ")),
			logging.String(logging.FieldImpact, "skipped files are not part of the join"),
		)
	}
	logger.Info("files added",
		logging.Int("added", len(report.Added)),
		logging.Int("duplicates", len(report.Duplicates)),
		logging.Int("slots", c.list.Len()),
	)
	return report
}

// Preview computes the plan for the current order without keeping its
// directive file. The returned plan has an empty DirectivePath and its
// invocation names concat.DirectivePlaceholder instead.
func (c *Controller) Preview() (*concat.Plan, error) {
	plan, err := concat.Build(c.list.ResolvedOrder(), c.exec.ToolBinaryPath)
	if err != nil {
		return nil, err
	}
	if err := plan.DetachDirective(); err != nil {
		c.logger.Debug("preview directive not removed", logging.Error(err))
	}
	return plan, nil
}

// Join recomputes the plan from the current order and executes it. On
// success the list is cleared back to its placeholders.
func (c *Controller) Join(ctx context.Context) (join.Result, error) {
	logger := logging.WithContext(ctx, c.logger)
	plan, err := concat.Build(c.list.ResolvedOrder(), c.exec.ToolBinaryPath)
	if err != nil {
		return join.Result{}, err
	}
	logger.Debug("join order", logging.String("order", c.list.Describe()))

	result, err := c.runner.Execute(ctx, plan, c.exec)
	if err != nil {
		return join.Result{}, err
	}
	c.logReleaseErrors(logger, c.list.Clear())
	return result, nil
}

// Reorder applies a full permutation of slot indices.
func (c *Controller) Reorder(perm []int) error {
	return c.list.Reorder(perm)
}

// Move relocates one slot.
func (c *Controller) Move(from, to int) error {
	return c.list.Move(from, to)
}

// Remove discards the entry at index.
func (c *Controller) Remove(index int) error {
	return c.list.Remove(index)
}

// Clear empties the list back to its placeholders.
func (c *Controller) Clear() {
	c.logReleaseErrors(c.logger, c.list.Clear())
}

// Close releases every owned thumbnail. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.logReleaseErrors(c.logger, c.list.RemoveAll())
}

func (c *Controller) logReleaseErrors(logger *slog.Logger, errs []error) {
	for _, err := range errs {
		logging.WarnWithContext(logger, "thumbnail not released", "thumbnail_release_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "a temporary image remains in the temp directory"),
		)
	}
}

// Supported reports whether path has a supported video extension.
func Supported(path string) bool {
	return slices.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}
