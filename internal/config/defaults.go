package config

const (
	defaultRecipesDir            = "configuration"
	defaultIngredientsFile       = "configuration/ingredients.csv"
	defaultExternalFile          = "off_ingredients.csv"
	defaultSiteDir               = "static_site"
	defaultDatabasePath          = "~/.local/share/mealprep/mealprep.db"
	defaultLogDir                = "~/.local/share/mealprep/logs"
	defaultLogRetentionDays      = 30
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultFuzzyThreshold        = 45
	defaultTopCandidates         = 5
	defaultFetchBaseURL          = "https://world.openfoodfacts.org/api/v2/search"
	defaultFetchCountry          = "en:netherlands"
	defaultFetchPageSize         = 100
	defaultFetchPageDelaySeconds = 1.0
	defaultFetchTimeoutSeconds   = 90
	defaultFetchUserAgent        = "mealprep/dev"
	defaultServerBind            = "127.0.0.1:5000"

	// maxFetchPageSize is the largest page Open Food Facts serves.
	maxFetchPageSize = 100
)

var defaultRetryBackoffSeconds = []float64{10, 30, 60}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RecipesDir:      defaultRecipesDir,
			IngredientsFile: defaultIngredientsFile,
			ExternalFile:    defaultExternalFile,
			SiteDir:         defaultSiteDir,
			DatabasePath:    defaultDatabasePath,
			LogDir:          defaultLogDir,
		},
		Reconcile: Reconcile{
			FuzzyThreshold: defaultFuzzyThreshold,
			TopCandidates:  defaultTopCandidates,
		},
		Fetch: Fetch{
			BaseURL:               defaultFetchBaseURL,
			Country:               defaultFetchCountry,
			PageSize:              defaultFetchPageSize,
			PageDelaySeconds:      defaultFetchPageDelaySeconds,
			RequestTimeoutSeconds: defaultFetchTimeoutSeconds,
			RetryBackoffSeconds:   append([]float64(nil), defaultRetryBackoffSeconds...),
			UserAgent:             defaultFetchUserAgent,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
