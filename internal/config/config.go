package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	CORSOrigins string
	// Store selects the record repository: "postgres" or "memory"
	Store        string
	FixturesPath string // YAML fixtures loaded into the memory store
	SchemaDir    string // extra content-type schemas on top of the embedded ones
	// Admin routes (forest, unpublish) verify bearer tokens against this JWKS when set
	AdminJWKSURL string
	// Tree engine
	MaxTreeDepth       int
	SubtreeConcurrency int
	CollationLocale    string
	// Archive
	ArchiveTimezone     string
	ArchiveCacheControl string
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         env,
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		TablePrefix:         getTablePrefix(env),
		CORSOrigins:         getEnv("CORS_ORIGINS", "http://localhost:1337,http://localhost:4200,http://localhost:4293"),
		Store:               getEnv("STORE", "postgres"),
		FixturesPath:        getEnv("FIXTURES_PATH", ""),
		SchemaDir:           getEnv("SCHEMA_DIR", ""),
		AdminJWKSURL:        getEnv("ADMIN_JWKS_URL", ""),
		MaxTreeDepth:        getEnvInt("MAX_TREE_DEPTH", DefaultMaxTreeDepth),
		SubtreeConcurrency:  getEnvInt("SUBTREE_CONCURRENCY", 4),
		CollationLocale:     getEnv("COLLATION_LOCALE", "it"),
		ArchiveTimezone:     getEnv("ARCHIVE_TIMEZONE", "UTC"),
		ArchiveCacheControl: getEnv("ARCHIVE_CACHE_CONTROL", "public, max-age=60, stale-while-revalidate=604800"),
		LogDir:              getEnv("LOG_DIR", ""),
		LogMaxFiles:         getEnvInt("LOG_MAX_FILES", 10),
	}
}

// AllowedOrigins splits CORSOrigins into trimmed, non-empty entries
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
