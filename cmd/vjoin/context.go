package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vjoin/internal/config"
	"vjoin/internal/join"
	"vjoin/internal/logging"
	"vjoin/internal/media/probe"
	"vjoin/internal/medialist"
	"vjoin/internal/services"
	"vjoin/internal/session"
	"vjoin/internal/sessionstore"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool
	sessionID   string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
		sessionID:   uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", resolved, err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		if c.verbose() {
			cfg.Logging.Console = true
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// ensureLogger builds the file logger once. Logging failures never block a
// command; the no-op logger is used instead.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// operationContext tags the command context with the session id and operation
// name so every log line of this invocation can be correlated.
func (c *commandContext) operationContext(cmd *cobra.Command, operation string) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithSessionID(ctx, c.sessionID)
	return services.WithOperation(ctx, operation)
}

func (c *commandContext) newProber(cfg *config.Config) *probe.Prober {
	settings := cfg.Execution()
	return probe.New(settings.ProbeBinaryPath, settings.ToolBinaryPath, c.ensureLogger())
}

func (c *commandContext) newExecutor(stderr io.Writer) *join.Executor {
	executor := join.NewExecutor(c.ensureLogger())
	if c.verbose() {
		executor.Stderr = stderr
	}
	return executor
}

// newController builds a controller around list using the loaded config.
func (c *commandContext) newController(cmd *cobra.Command, list *medialist.List) (*session.Controller, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return session.New(list, c.newProber(cfg), c.newExecutor(cmd.ErrOrStderr()), cfg.Execution(), c.ensureLogger()), nil
}

// withSession loads the persisted list under the session lock, runs fn and
// saves the list back, even when fn fails, so the stored state always
// matches what the controller holds.
func (c *commandContext) withSession(cmd *cobra.Command, operation string, fn func(context.Context, *session.Controller) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	ctx := c.operationContext(cmd, operation)
	logger := logging.WithContext(ctx, c.ensureLogger())

	store, err := sessionstore.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("session store close failed", logging.Error(closeErr))
		}
	}()

	list, err := c.loadList(ctx, cfg, store)
	if err != nil {
		return err
	}
	controller, err := c.newController(cmd, list)
	if err != nil {
		return err
	}

	runErr := fn(ctx, controller)
	if saveErr := store.Save(ctx, sessionstore.SnapshotOf(list)); saveErr != nil {
		return errors.Join(runErr, saveErr)
	}
	return runErr
}

func (c *commandContext) loadList(ctx context.Context, cfg *config.Config, store *sessionstore.Store) (*medialist.List, error) {
	list, err := newConfiguredList(cfg)
	if err != nil {
		return nil, err
	}
	snapshot, found, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		list.Restore(snapshot.MediaSlots())
	}
	return list, nil
}

func newConfiguredList(cfg *config.Config) (*medialist.List, error) {
	return medialist.New(cfg.Join.PlaceholderSlots, medialist.Policy(cfg.Join.InsertPolicy))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
