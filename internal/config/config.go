// Package config holds server settings read from the environment and viewer preferences
// persisted as JSON.
package config

import (
	"os"
	"strconv"
	"time"
)

// ============================================================
// Server configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	LogLevel     string
	LogFormat    string
	CatalogPath  string
	RenderWidth  int
	RenderHeight int
	SessionTTL   time.Duration
	CacheDir     string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		CatalogPath:  getEnv("CATALOG_PATH", ""),
		RenderWidth:  getEnvAsInt("RENDER_WIDTH", 640),
		RenderHeight: getEnvAsInt("RENDER_HEIGHT", 480),
		SessionTTL:   getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		CacheDir:     getEnv("CACHE_DIR", "cache/environments"),
	}
}

// Development reports whether ENV selects development mode.
func (c *Config) Development() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
