// Package config resolves the agent configuration from the environment,
// optionally seeded from a .env file. The core treats every value here as
// already validated.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all externally supplied settings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// JWTSecret signs API tokens. Empty disables authentication.
	JWTSecret string

	// PollInterval drives the collection tick.
	PollInterval time.Duration
	// CacheTTL is the default per-category cache lifetime.
	CacheTTL time.Duration
	// SlowCacheTTL applies to the expensive categories (processes,
	// connectivity).
	SlowCacheTTL time.Duration
	// MaxSampleAge bounds how old a previous CPU counter snapshot may be.
	MaxSampleAge time.Duration
	// SampleDelay is the enforced wait when building a fresh CPU window.
	SampleDelay time.Duration
	// CollectTimeout bounds every hardware collection call.
	CollectTimeout time.Duration

	// Retention is the history window; older entries are purged.
	Retention time.Duration
	// DefaultInertia applies to monitors created without an explicit one.
	DefaultInertia time.Duration

	// PingTargets are the hosts probed by the connectivity checker.
	PingTargets []string
}

// Load reads the configuration from the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	return &Config{
		Addr:           getEnv("SYSAPI_ADDR", "localhost:8080"),
		JWTSecret:      getEnv("SYSAPI_JWT_SECRET", ""),
		PollInterval:   getSeconds("SYSAPI_POLL_INTERVAL_SECONDS", 5),
		CacheTTL:       getSeconds("SYSAPI_CACHE_TTL_SECONDS", 1),
		SlowCacheTTL:   getSeconds("SYSAPI_SLOW_CACHE_TTL_SECONDS", 30),
		MaxSampleAge:   getSeconds("SYSAPI_MAX_SAMPLE_AGE_SECONDS", 10),
		SampleDelay:    getMillis("SYSAPI_SAMPLE_DELAY_MILLIS", 900),
		CollectTimeout: getSeconds("SYSAPI_COLLECT_TIMEOUT_SECONDS", 10),
		Retention:      getMinutes("SYSAPI_RETENTION_MINUTES", 60),
		DefaultInertia: getSeconds("SYSAPI_DEFAULT_INERTIA_SECONDS", 30),
		PingTargets:    getList("SYSAPI_PING_TARGETS", nil),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func getSeconds(key string, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback)) * time.Second
}

func getMillis(key string, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback)) * time.Millisecond
}

func getMinutes(key string, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback)) * time.Minute
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
