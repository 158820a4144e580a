package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the environment-driven server configuration. A .env file in the
// working directory is honored; real environment variables win.
type Config struct {
	Env             string        // "production" or anything else for development
	Listen          string        // HTTP listen address
	DBPath          string        // sqlite database file
	ExtractorURL    string        // extraction service endpoint
	CredentialsPath string        // Google OAuth client secret JSON
	TokenPath       string        // previously acquired OAuth token JSON
	ProviderTimeout time.Duration // per provider/extractor call
	CSRFKeyHex      string        // 32-byte key, hex encoded
	RateLimitPerSec int           // per-IP request budget
	UseNoopProvider bool          // serve an in-memory calendar instead of Google
}

// Load reads configuration from the environment with development defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:             getEnv("DEADLINES_ENV", "development"),
		Listen:          getEnv("DEADLINES_LISTEN", ":8080"),
		DBPath:          getEnv("DEADLINES_DB", "deadlines.db"),
		ExtractorURL:    getEnv("DEADLINES_EXTRACTOR_URL", "http://localhost:8000/extract-assignments"),
		CredentialsPath: getEnv("DEADLINES_GOOGLE_CREDENTIALS", "credentials.json"),
		TokenPath:       getEnv("DEADLINES_GOOGLE_TOKEN", "token.json"),
		ProviderTimeout: getDuration("DEADLINES_PROVIDER_TIMEOUT", 15*time.Second),
		CSRFKeyHex:      getEnv("DEADLINES_CSRF_KEY", ""),
		RateLimitPerSec: getInt("DEADLINES_RATE_LIMIT", 10),
		UseNoopProvider: getEnv("DEADLINES_NOOP_PROVIDER", "") == "1",
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
