package config

const (
	defaultCatalogFile    = "~/.local/share/catsearch/catalog.json.gz"
	defaultDownloadPath   = "~/.local/share/catsearch/catalog.json.gz"
	defaultFrequencyUnit  = "MHz"
	defaultJPLBaseURL     = "https://spec.jpl.nasa.gov/ftp/pub/catalog"
	defaultCDMSBaseURL    = "https://cdms.astro.uni-koeln.de"
	defaultConcurrency    = 8
	defaultAttempts       = 3
	defaultRetryDelayMS   = 500
	defaultTimeoutSeconds = 30
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Catalog: Catalog{
			Files:        []string{defaultCatalogFile},
			DownloadPath: defaultDownloadPath,
		},
		Search: Search{
			FrequencyUnit: defaultFrequencyUnit,
		},
		Fetch: Fetch{
			JPLBaseURL:     defaultJPLBaseURL,
			CDMSBaseURL:    defaultCDMSBaseURL,
			Concurrency:    defaultConcurrency,
			Attempts:       defaultAttempts,
			RetryDelayMS:   defaultRetryDelayMS,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
