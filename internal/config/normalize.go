package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeDownload()
	c.normalizeLogging()
	return nil
}

// normalizePaths expands the work directory and derives any layout paths the
// operator left unset. Explicitly configured paths are expanded as given.
func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = ExpandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}

	derived := []struct {
		field    *string
		fallback string
		name     string
	}{
		{&c.Paths.DownloadDir, "downloads", "paths.download_dir"},
		{&c.Paths.OrganizedDir, "organized", "paths.organized_dir"},
		{&c.Paths.LogDir, "logs", "paths.log_dir"},
		{&c.Paths.LedgerPath, "downloaded.jsonl", "paths.ledger_path"},
		{&c.Paths.Translations, "translations.json", "paths.translations"},
	}
	for _, d := range derived {
		if strings.TrimSpace(*d.field) == "" {
			*d.field = filepath.Join(c.Paths.WorkDir, d.fallback)
			continue
		}
		if *d.field, err = ExpandPath(*d.field); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}
	return nil
}

// SetWorkDir re-roots the directory layout at dir. All derived paths are
// recomputed, including ones the config file set explicitly.
func (c *Config) SetWorkDir(dir string) error {
	c.Paths = Paths{WorkDir: dir}
	return c.normalizePaths()
}

func (c *Config) normalizeCatalog() {
	if strings.TrimSpace(c.Catalog.BaseURL) == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/") + "/"
	if strings.TrimSpace(c.Catalog.Referer) == "" {
		c.Catalog.Referer = defaultCatalogReferer
	}
	if strings.TrimSpace(c.Catalog.Origin) == "" {
		c.Catalog.Origin = defaultCatalogOrigin
	}
	if c.Catalog.RequestTimeout <= 0 {
		c.Catalog.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeDownload() {
	if strings.TrimSpace(c.Download.Quality) == "" {
		c.Download.Quality = defaultQuality
	}
	if c.Download.Workers <= 0 {
		c.Download.Workers = defaultWorkers
	}
	if strings.TrimSpace(c.Download.FFmpegBinary) == "" {
		c.Download.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Download.FetchTimeout < 0 {
		c.Download.FetchTimeout = defaultFetchTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
