package config

import (
	"errors"
	"fmt"

	"github.com/HaukurPall/ruv-dl/internal/hls"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDownload() error {
	if _, err := hls.ParseTier(c.Download.Quality); err != nil {
		return fmt.Errorf("download.quality: %w", err)
	}
	if c.Download.Workers > 8 {
		return errors.New("download.workers must be 8 or fewer; the remote service is the bottleneck")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
