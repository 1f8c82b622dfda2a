package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// applyEnv overlays MEALPREP_* environment variables. They take precedence
// over the config file.
func (c *Config) applyEnv() {
	stringVars := []struct {
		name string
		dst  *string
	}{
		{"MEALPREP_RECIPES_DIR", &c.Paths.RecipesDir},
		{"MEALPREP_INGREDIENTS_FILE", &c.Paths.IngredientsFile},
		{"MEALPREP_EXTERNAL_FILE", &c.Paths.ExternalFile},
		{"MEALPREP_SITE_DIR", &c.Paths.SiteDir},
		{"MEALPREP_DATABASE_PATH", &c.Paths.DatabasePath},
		{"MEALPREP_LOG_DIR", &c.Paths.LogDir},
		{"MEALPREP_SERVER_BIND", &c.Server.Bind},
		{"MEALPREP_LOG_LEVEL", &c.Logging.Level},
		{"MEALPREP_LOG_FORMAT", &c.Logging.Format},
		{"MEALPREP_FETCH_BASE_URL", &c.Fetch.BaseURL},
		{"MEALPREP_FETCH_USER_AGENT", &c.Fetch.UserAgent},
	}
	for _, v := range stringVars {
		if value, ok := os.LookupEnv(v.name); ok && strings.TrimSpace(value) != "" {
			*v.dst = strings.TrimSpace(value)
		}
	}
	if value, ok := os.LookupEnv("MEALPREP_FUZZY_THRESHOLD"); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			c.Reconcile.FuzzyThreshold = parsed
		}
	}
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFetch()
	c.normalizeReconcile()
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.recipes_dir", &c.Paths.RecipesDir, defaultRecipesDir},
		{"paths.ingredients_file", &c.Paths.IngredientsFile, defaultIngredientsFile},
		{"paths.external_file", &c.Paths.ExternalFile, defaultExternalFile},
		{"paths.site_dir", &c.Paths.SiteDir, defaultSiteDir},
		{"paths.database_path", &c.Paths.DatabasePath, defaultDatabasePath},
		{"paths.log_dir", &c.Paths.LogDir, ""},
	}
	for _, f := range fields {
		if strings.TrimSpace(*f.value) == "" {
			*f.value = f.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*f.value))
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.value = expanded
	}
	return nil
}

func (c *Config) normalizeFetch() {
	c.Fetch.BaseURL = strings.TrimSpace(c.Fetch.BaseURL)
	if c.Fetch.BaseURL == "" {
		c.Fetch.BaseURL = defaultFetchBaseURL
	}
	c.Fetch.Country = strings.TrimSpace(c.Fetch.Country)
	if c.Fetch.Country == "" {
		c.Fetch.Country = defaultFetchCountry
	}
	if c.Fetch.PageSize <= 0 {
		c.Fetch.PageSize = defaultFetchPageSize
	}
	if c.Fetch.RequestTimeoutSeconds <= 0 {
		c.Fetch.RequestTimeoutSeconds = defaultFetchTimeoutSeconds
	}
	if c.Fetch.PageDelaySeconds < 0 {
		c.Fetch.PageDelaySeconds = 0
	}
	if c.Fetch.RetryBackoffSeconds == nil {
		c.Fetch.RetryBackoffSeconds = append([]float64(nil), defaultRetryBackoffSeconds...)
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultFetchUserAgent
	}
}

func (c *Config) normalizeReconcile() {
	if c.Reconcile.TopCandidates == 0 {
		c.Reconcile.TopCandidates = defaultTopCandidates
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
