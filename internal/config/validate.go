package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validateTransfer(); err != nil {
		return err
	}
	if err := c.validateCluster(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOrganize() error {
	if c.Organize.Jobs < 0 {
		return errors.New("organize.jobs must be zero or positive")
	}
	name := strings.TrimSpace(c.Organize.IndexFilename)
	if name == "" {
		return errors.New("organize.index_filename must be set")
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("organize.index_filename must be a bare filename, got %q", name)
	}
	return nil
}

func (c *Config) validateTransfer() error {
	if c.Transfer.MaxAttempts < 1 || c.Transfer.MaxAttempts > 10 {
		return errors.New("transfer.max_attempts must be between 1 and 10")
	}
	if c.Transfer.RetryBaseMS <= 0 {
		return errors.New("transfer.retry_base_ms must be positive")
	}
	if c.Transfer.RetryMaxMS < c.Transfer.RetryBaseMS {
		return errors.New("transfer.retry_max_ms must be >= transfer.retry_base_ms")
	}
	return nil
}

func (c *Config) validateCluster() error {
	if c.Cluster.EpsilonKM <= 0 {
		return errors.New("cluster.epsilon_km must be positive")
	}
	if c.Cluster.MinPoints < 1 || c.Cluster.MinPoints > 10 {
		return errors.New("cluster.min_points must be between 1 and 10")
	}
	if c.Cluster.MaxPlaceDistanceKM <= 0 {
		return errors.New("cluster.max_place_distance_km must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
