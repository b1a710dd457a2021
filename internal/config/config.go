package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendGCS      = "gcs"
)

// Config holds application configuration
type Config struct {
	// Server
	Port   string
	Env    string
	APIKey string

	// Ledger
	UserKey               string
	ResolutionPolicy      string
	LowBalanceDedupWindow time.Duration
	SchedulerInterval     time.Duration
	SeedFile              string

	// Storage
	StorageBackend string
	SQLitePath     string
	GCSBucket      string
	GCSPrefix      string
	LocalCachePath string
	SaveDebounce   time.Duration
	PollInterval   time.Duration

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// AI
	GeminiAPIKey string
	GeminiModel  string

	// Forex
	ForexBaseURL         string
	ForexRefreshInterval time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port:   getEnv("PORT", "8080"),
		Env:    getEnv("ENV", "development"),
		APIKey: getEnv("API_KEY", ""),

		// Ledger
		UserKey:          getEnv("USER_KEY", "default_user"),
		ResolutionPolicy: getEnv("RESOLUTION_POLICY", "WARN_AND_SKIP"),
		SeedFile:         getEnv("SEED_FILE", ""),

		// Storage
		StorageBackend: getEnv("STORAGE_BACKEND", BackendSQLite),
		SQLitePath:     getEnv("SQLITE_PATH", "kiptrack.db"),
		GCSBucket:      getEnv("GCS_BUCKET", ""),
		GCSPrefix:      getEnv("GCS_PREFIX", "users"),
		LocalCachePath: getEnv("LOCAL_CACHE_PATH", ""),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "kiptrack"),
		DBPassword: getEnv("DB_PASSWORD", "kiptrack"),
		DBName:     getEnv("DB_NAME", "kiptrack"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// AI
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		// Forex
		ForexBaseURL: getEnv("FOREX_BASE_URL", ""),
	}

	config.SaveDebounce = getDuration("SAVE_DEBOUNCE", time.Second)
	config.PollInterval = getDuration("POLL_INTERVAL", 5*time.Second)
	config.SchedulerInterval = getDuration("SCHEDULER_INTERVAL", time.Minute)
	config.LowBalanceDedupWindow = getDuration("LOW_BALANCE_DEDUP_WINDOW", 24*time.Hour)
	config.ForexRefreshInterval = getDuration("FOREX_REFRESH_INTERVAL", 0)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// PostgresDSN builds the PostgreSQL connection string from the DB_* settings.
func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

// PostgresURL builds the URL form used by golang-migrate.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration variable, falling back to the default on a bad value.
// A bare integer is read as seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
