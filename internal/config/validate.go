package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateReconcile(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	switch strings.ToLower(filepath.Ext(c.Paths.IngredientsFile)) {
	case ".csv", ".yaml", ".yml":
	default:
		return fmt.Errorf("paths.ingredients_file must be a .csv, .yaml or .yml file, got %q", c.Paths.IngredientsFile)
	}
	if strings.ToLower(filepath.Ext(c.Paths.ExternalFile)) != ".csv" {
		return fmt.Errorf("paths.external_file must be a .csv file, got %q", c.Paths.ExternalFile)
	}
	if c.Paths.RecipesDir == "" {
		return errors.New("paths.recipes_dir must be set")
	}
	return nil
}

func (c *Config) validateReconcile() error {
	if c.Reconcile.FuzzyThreshold < 0 || c.Reconcile.FuzzyThreshold > 100 {
		return errors.New("reconcile.fuzzy_threshold must be between 0 and 100")
	}
	if c.Reconcile.TopCandidates < 1 {
		return errors.New("reconcile.top_candidates must be at least 1")
	}
	return nil
}

func (c *Config) validateFetch() error {
	parsed, err := url.Parse(c.Fetch.BaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("fetch.base_url must be an http(s) URL, got %q", c.Fetch.BaseURL)
	}
	if c.Fetch.PageSize > maxFetchPageSize {
		return fmt.Errorf("fetch.page_size must be at most %d", maxFetchPageSize)
	}
	for i, backoff := range c.Fetch.RetryBackoffSeconds {
		if backoff < 0 {
			return fmt.Errorf("fetch.retry_backoff_seconds[%d] must not be negative", i)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
