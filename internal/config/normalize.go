package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeSearch()
	c.normalizeFetch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeCatalog() error {
	files := make([]string, 0, len(c.Catalog.Files))
	for _, file := range c.Catalog.Files {
		if strings.TrimSpace(file) == "" {
			continue
		}
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("catalog.files: %w", err)
		}
		files = append(files, expanded)
	}
	c.Catalog.Files = files

	if strings.TrimSpace(c.Catalog.DownloadPath) == "" {
		c.Catalog.DownloadPath = defaultDownloadPath
	}
	expanded, err := expandPath(c.Catalog.DownloadPath)
	if err != nil {
		return fmt.Errorf("catalog.download_path: %w", err)
	}
	c.Catalog.DownloadPath = expanded
	return nil
}

func (c *Config) normalizeSearch() {
	c.Search.FrequencyUnit = strings.TrimSpace(c.Search.FrequencyUnit)
	if c.Search.FrequencyUnit == "" {
		c.Search.FrequencyUnit = defaultFrequencyUnit
	}
}

func (c *Config) normalizeFetch() {
	c.Fetch.JPLBaseURL = strings.TrimRight(strings.TrimSpace(c.Fetch.JPLBaseURL), "/")
	if c.Fetch.JPLBaseURL == "" {
		c.Fetch.JPLBaseURL = defaultJPLBaseURL
	}
	c.Fetch.CDMSBaseURL = strings.TrimRight(strings.TrimSpace(c.Fetch.CDMSBaseURL), "/")
	if c.Fetch.CDMSBaseURL == "" {
		c.Fetch.CDMSBaseURL = defaultCDMSBaseURL
	}
	if c.Fetch.Concurrency == 0 {
		c.Fetch.Concurrency = defaultConcurrency
	}
	if c.Fetch.Attempts == 0 {
		c.Fetch.Attempts = defaultAttempts
	}
	if c.Fetch.RetryDelayMS == 0 {
		c.Fetch.RetryDelayMS = defaultRetryDelayMS
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = defaultTimeoutSeconds
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
