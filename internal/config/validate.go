package config

import (
	"errors"
	"fmt"

	"vjoin/internal/medialist"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateJoin(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateJoin() error {
	if c.Join.PlaceholderSlots < 0 {
		return errors.New("join.placeholder_slots must be zero or positive")
	}
	if c.Join.PlaceholderSlots > maxPlaceholderSlots {
		return fmt.Errorf("join.placeholder_slots must be at most %d", maxPlaceholderSlots)
	}
	if _, err := medialist.ParsePolicy(c.Join.InsertPolicy); err != nil {
		return fmt.Errorf("join.insert_policy: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
