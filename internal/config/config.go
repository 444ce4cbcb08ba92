package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tools locates the external ffmpeg/ffprobe binaries.
type Tools struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	ManualOverride bool   `toml:"manual_override"`
}

// Join contains list and join behaviour settings.
type Join struct {
	DeleteSources    bool   `toml:"delete_sources"`
	PlaceholderSlots int    `toml:"placeholder_slots"`
	InsertPolicy     string `toml:"insert_policy"`
	Thumbnails       bool   `toml:"thumbnails"`
}

// Paths contains directories used by the CLI front end.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format  string `toml:"format"`
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// Config encapsulates all configuration values for vjoin.
//
// Configuration sections by subsystem:
//   - Tools: ffmpeg/ffprobe locations and the manual override toggle
//   - Join: source deletion, placeholder slots, insertion policy, thumbnails
//   - Paths: session state and log directories
//   - Logging: log format, level, and console mirroring
type Config struct {
	Tools   Tools   `toml:"tools"`
	Join    Join    `toml:"join"`
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
}

// ExecutionConfig is the subset of settings the join pipeline consumes.
type ExecutionConfig struct {
	ToolBinaryPath         string
	ProbeBinaryPath        string
	DeleteSourcesOnSuccess bool
}

// DefaultExecution returns the bare-name tool settings resolved via PATH.
func DefaultExecution() ExecutionConfig {
	return ExecutionConfig{
		ToolBinaryPath:  defaultFFmpegBinary,
		ProbeBinaryPath: defaultFFprobeBinary,
	}
}

// Execution derives the execution settings. Explicit binary paths only apply
// when the manual override is enabled; otherwise the bare command names are
// used so reverting the override restores PATH resolution.
func (c *Config) Execution() ExecutionConfig {
	settings := DefaultExecution()
	settings.DeleteSourcesOnSuccess = c.Join.DeleteSources
	if !c.Tools.ManualOverride {
		return settings
	}
	if value := strings.TrimSpace(c.Tools.FFmpegBinary); value != "" {
		settings.ToolBinaryPath = value
	}
	if value := strings.TrimSpace(c.Tools.FFprobeBinary); value != "" {
		settings.ProbeBinaryPath = value
	}
	return settings
}

// SessionDBPath returns the location of the persisted slot list.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.Paths.StateDir, "session.db")
}

// LockPath returns the location of the CLI session lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "vjoin.lock")
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vjoin/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vjoin.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
