package testsupport

import (
	"path/filepath"
	"testing"

	"mealprep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The recipes directory holds the NewTree fixtures.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	tree := NewTree(t)
	cfgVal := config.Default()
	cfgVal.Paths.RecipesDir = tree.RecipesDir
	cfgVal.Paths.IngredientsFile = tree.IngredientsFile
	cfgVal.Paths.ExternalFile = filepath.Join(base, "off_ingredients.csv")
	cfgVal.Paths.SiteDir = filepath.Join(base, "static_site")
	cfgVal.Paths.DatabasePath = filepath.Join(base, "data", "mealprep.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Fetch.PageDelaySeconds = 0
	cfgVal.Fetch.RetryBackoffSeconds = []float64{0}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithExternalTable writes content as the external table.
func WithExternalTable(content string) ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, b.cfg.Paths.ExternalFile, content)
	}
}

// WithFetchBaseURL points the fetcher at a test server.
func WithFetchBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Fetch.BaseURL = url
	}
}

// WithReconcile overrides the fuzzy threshold and candidate cap.
func WithReconcile(threshold float64, top int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Reconcile.FuzzyThreshold = threshold
		b.cfg.Reconcile.TopCandidates = top
	}
}

// WithoutLogFile disables the log file.
func WithoutLogFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = ""
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SiteDir)
}

// WriteConfigFile marshals cfg as TOML into the base directory and returns
// its path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()
	data, err := config.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "mealprep.toml")
	WriteFile(t, path, string(data))
	return path
}
