package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"mealprep/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains data locations.
type Paths struct {
	RecipesDir      string `toml:"recipes_dir"`
	IngredientsFile string `toml:"ingredients_file"`
	ExternalFile    string `toml:"external_file"`
	SiteDir         string `toml:"site_dir"`
	DatabasePath    string `toml:"database_path"`
	LogDir          string `toml:"log_dir"`
}

// Reconcile contains the fuzzy matching limits.
type Reconcile struct {
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
	TopCandidates  int     `toml:"top_candidates"`
}

// Fetch contains Open Food Facts client settings.
type Fetch struct {
	BaseURL               string    `toml:"base_url"`
	Country               string    `toml:"country"`
	PageSize              int       `toml:"page_size"`
	PageDelaySeconds      float64   `toml:"page_delay_seconds"`
	RequestTimeoutSeconds int       `toml:"request_timeout_seconds"`
	RetryBackoffSeconds   []float64 `toml:"retry_backoff_seconds"`
	UserAgent             string    `toml:"user_agent"`
}

// Server contains web server settings.
type Server struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for mealprep.
//
// Configuration sections:
//   - Paths: recipe tree, ingredient tables, outputs
//   - Reconcile: fuzzy threshold and candidate cap
//   - Fetch: Open Food Facts paging, timeouts and retries
//   - Server: web server bind address
//   - Logging: log format, level, and retention
type Config struct {
	Paths     Paths     `toml:"paths"`
	Reconcile Reconcile `toml:"reconcile"`
	Fetch     Fetch     `toml:"fetch"`
	Server    Server    `toml:"server"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mealprep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Lookup order is path,
// then ~/.config/mealprep/config.toml, then ./mealprep.toml; when none exists
// the defaults are used and exists is false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mealprep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output directories commands write into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.SiteDir, filepath.Dir(c.Paths.DatabasePath)}
	if c.Paths.LogDir != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequestTimeout returns the per-request HTTP timeout of the fetcher.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Fetch.RequestTimeoutSeconds) * time.Second
}

// PageDelay returns the pause between fetched pages.
func (c *Config) PageDelay() time.Duration {
	return seconds(c.Fetch.PageDelaySeconds)
}

// RetryBackoff returns the waits before each retry attempt.
func (c *Config) RetryBackoff() []time.Duration {
	out := make([]time.Duration, 0, len(c.Fetch.RetryBackoffSeconds))
	for _, s := range c.Fetch.RetryBackoffSeconds {
		out = append(out, seconds(s))
	}
	return out
}

func seconds(value float64) time.Duration {
	return time.Duration(value * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the sample configuration to path. An existing file is
// never overwritten.
func CreateSample(path string) error {
	exists, err := fileutil.Exists(path)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	if exists {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Marshal encodes cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
