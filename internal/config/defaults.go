package config

const (
	defaultWorkDir        = "~/.local/share/ruv-dl"
	defaultCatalogBaseURL = "https://spilari.nyr.ruv.is/gql/"
	defaultCatalogReferer = "https://www.ruv.is/sjonvarp"
	defaultCatalogOrigin  = "https://www.ruv.is"
	defaultRequestTimeout = 30
	defaultQuality        = "1080p"
	defaultWorkers        = 2
	defaultFFmpegBinary   = "ffmpeg"
	defaultFetchTimeout   = 0 // downloads can run for hours; no timeout unless configured
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
		},
		Catalog: Catalog{
			BaseURL:        defaultCatalogBaseURL,
			Referer:        defaultCatalogReferer,
			Origin:         defaultCatalogOrigin,
			RequestTimeout: defaultRequestTimeout,
		},
		Download: Download{
			Quality:      defaultQuality,
			Workers:      defaultWorkers,
			FFmpegBinary: defaultFFmpegBinary,
			FetchTimeout: defaultFetchTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
