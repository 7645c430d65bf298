// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App            AppConfig            `mapstructure:"app"`
	Server         ServerConfig         `mapstructure:"server"`
	TMDB           TMDBConfig           `mapstructure:"tmdb"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

// TMDBConfig holds the metadata-provider credentials and endpoints. APIKey
// is required; a missing key is a fatal configuration error at load time.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Language     string `mapstructure:"language"`
	Region       string `mapstructure:"region"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RecommendationConfig holds the retrieval and ranking knobs. The page
// budget and batching discipline are deliberate client-side rate limiting
// against the provider, not a performance optimization.
type RecommendationConfig struct {
	DefaultLimit    int `mapstructure:"default_limit"`
	PageBudget      int `mapstructure:"page_budget"`
	BatchSize       int `mapstructure:"batch_size"`
	BatchDelay      int `mapstructure:"batch_delay"`       // milliseconds
	MovieCacheTTL   int `mapstructure:"movie_cache_ttl"`   // milliseconds
	GenreCacheTTL   int `mapstructure:"genre_cache_ttl"`   // milliseconds
	WarningsTimeout int `mapstructure:"warnings_timeout"`  // milliseconds
	SimilarLimit    int `mapstructure:"similar_limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
