package config

import (
	"errors"
	"fmt"

	"catsearch/internal/units"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSearch() error {
	if _, err := units.ParseFrequencyUnit(c.Search.FrequencyUnit); err != nil {
		return fmt.Errorf("search.frequency_unit: %w", err)
	}
	if c.Search.Temperature < 0 {
		return errors.New("search.temperature must be positive (kelvins), or 0 to disable rescaling")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if err := ensurePositiveMap(map[string]int{
		"fetch.concurrency":     c.Fetch.Concurrency,
		"fetch.attempts":        c.Fetch.Attempts,
		"fetch.retry_delay_ms":  c.Fetch.RetryDelayMS,
		"fetch.timeout_seconds": c.Fetch.TimeoutSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
