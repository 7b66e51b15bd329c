// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs access tokens. Required.
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	// PlannerBaseURL is the itinerary service root. When empty every chat
	// request fails with the apology reply; the rest of the API still works.
	PlannerBaseURL string
	// PlannerTimeout bounds one itinerary request; 0 waits indefinitely.
	PlannerTimeout time.Duration

	// MapsAPIKey is handed to clients by GET /maps/config. Optional.
	MapsAPIKey string

	ChatSessionTTL time.Duration
	ChatRateRPS    float64
	ChatRateBurst  int

	MaxBodyBytes   int64
	MigrateOnStart bool

	// TrustProxy makes the API take client addresses from X-Forwarded-For
	// and X-Real-IP. Enable only behind a proxy that sets those headers.
	TrustProxy bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable whose value does not parse.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		JWTIssuer:      getEnv("JWT_ISSUER", "trip-planner"),
		PlannerBaseURL: strings.TrimRight(os.Getenv("PLANNER_BASE_URL"), "/"),
		MapsAPIKey:     os.Getenv("MAPS_API_KEY"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.PlannerTimeout, err = getTimeout("PLANNER_TIMEOUT", 2*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.ChatSessionTTL, err = getDuration("CHAT_SESSION_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ChatRateRPS, err = getFloat("CHAT_RATE_RPS", 1); err != nil {
		return Config{}, err
	}
	if cfg.ChatRateBurst, err = getInt("CHAT_RATE_BURST", 5); err != nil {
		return Config{}, err
	}
	maxBody, err := getInt("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxBodyBytes = int64(maxBody)
	if cfg.MigrateOnStart, err = getBool("MIGRATE_ON_START", true); err != nil {
		return Config{}, err
	}
	if cfg.TrustProxy, err = getBool("TRUST_PROXY", false); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

// getTimeout is getDuration that also accepts 0, meaning no timeout.
func getTimeout(key string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v == "0" || v == "0s" {
		return 0, nil
	}
	return getDuration(key, fallback)
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: invalid positive integer %q", key, v)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%s: invalid positive number %q", key, v)
	}
	return f, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
