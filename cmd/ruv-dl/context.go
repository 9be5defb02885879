package main

import (
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/HaukurPall/ruv-dl/internal/catalog"
	"github.com/HaukurPall/ruv-dl/internal/config"
	"github.com/HaukurPall/ruv-dl/internal/logging"
)

type commandContext struct {
	configFlag   *string
	workDirFlag  *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce  sync.Once
	logger      *slog.Logger
	loggerClose func() error
	loggerErr   error
}

func newCommandContext(configFlag, workDirFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		workDirFlag:  workDirFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.workDirFlag != nil && strings.TrimSpace(*c.workDirFlag) != "" {
			if err := cfg.SetWorkDir(strings.TrimSpace(*c.workDirFlag)); err != nil {
				c.configErr = err
				return
			}
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger once. The returned close function
// flushes the debug log file; commands call it before exiting.
func (c *commandContext) ensureLogger() (*slog.Logger, func() error, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerClose, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerClose, c.loggerErr
}

func (c *commandContext) newCatalogClient() (*catalog.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := []catalog.Option{
		catalog.WithHeaders(cfg.Catalog.Referer, cfg.Catalog.Origin),
	}
	if cfg.Catalog.RequestTimeout > 0 {
		opts = append(opts, catalog.WithTimeout(time.Duration(cfg.Catalog.RequestTimeout)*time.Second))
	}
	return catalog.New(cfg.Catalog.BaseURL, opts...)
}
