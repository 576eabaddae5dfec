// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the server.
type Config struct {
	// HTTP server
	Port     string
	LogLevel string

	// Store selection
	UseMemoryStore bool
	ProjectID      string

	// Auth
	SkipAuth bool

	// Insight generation (Gemini)
	GeminiAPIKey  string
	GeminiBaseURL string

	// Statement extraction endpoint
	ExtractionURL     string
	ExtractionTimeout time.Duration

	// Statement archive bucket (optional)
	StatementBucket string

	// Search (optional)
	AlgoliaAppID     string
	AlgoliaAPIKey    string
	AlgoliaIndexName string
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present; missing is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8111"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		UseMemoryStore: getEnvBool("USE_MEMORY_STORE", false) || getEnv("ENV", "") == "local",
		ProjectID:      getEnv("GOOGLE_CLOUD_PROJECT", ""),

		SkipAuth: getEnvBool("SKIP_AUTH", false),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		ExtractionURL:     getEnv("EXTRACTION_SERVICE_URL", ""),
		ExtractionTimeout: getEnvDuration("EXTRACTION_TIMEOUT", 120*time.Second),

		StatementBucket: getEnv("STATEMENT_BUCKET", ""),

		AlgoliaAppID:     getEnv("ALGOLIA_APP_ID", ""),
		AlgoliaAPIKey:    getEnv("ALGOLIA_API_KEY", ""),
		AlgoliaIndexName: getEnv("ALGOLIA_INDEX_NAME", "moneylens"),
	}
}

// Validate checks the configuration and returns a combined error when
// anything is inconsistent.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !c.UseMemoryStore && c.ProjectID == "" {
		errs = append(errs, "GOOGLE_CLOUD_PROJECT is required unless USE_MEMORY_STORE is set")
	}

	if c.ExtractionTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("extraction timeout %v too small: must be at least 1s", c.ExtractionTimeout))
	}

	// Algolia is optional but must be configured as a pair.
	if (c.AlgoliaAppID == "") != (c.AlgoliaAPIKey == "") {
		errs = append(errs, "ALGOLIA_APP_ID and ALGOLIA_API_KEY must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
