package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"catsearch/internal/catalog"
	"catsearch/internal/config"
	"catsearch/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
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
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger, _ = logging.New(logging.Options{})
		}
		c.logger = logger
	})
	return c.logger
}

// loadStore reads the given catalog files, falling back to the configured
// ones. Unreadable or corrupt files are logged and skipped; only a resulting
// empty store is fatal.
func (c *commandContext) loadStore(overrides []string) (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.ensureLogger()

	paths := overrides
	if len(paths) == 0 {
		paths = cfg.Catalog.Files
	}
	if len(paths) == 0 {
		return nil, errors.New("no catalog files configured; run `catsearch fetch` or set catalog.files")
	}

	store := catalog.NewStore()
	if err := store.Load(paths...); err != nil {
		var report *catalog.LoadReport
		if !errors.As(err, &report) {
			return nil, err
		}
		for _, fileErr := range report.Errors {
			logger.Warn("skipping catalog file",
				slog.String("file", fileErr.Filename),
				logging.Err(fileErr.Err))
		}
	}
	if store.IsEmpty() {
		return nil, fmt.Errorf("no catalog entries loaded from %s", strings.Join(paths, ", "))
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
