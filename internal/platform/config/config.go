// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendMongo   = "mongo"
	BackendSpanner = "spanner"
	BackendMemory  = "memory"
)

// Config holds all application settings.
type Config struct {
	StoreBackend string

	MongoURL        string
	MongoDatabase   string
	MongoCollection string

	SpannerProjectID  string
	SpannerInstanceID string
	SpannerDatabaseID string

	HTTPHost           string
	HTTPPort           int
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	LogLevel slog.Level
}

// Load reads envFile (if present) into the process environment, then builds
// Config from environment variables. Variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		MongoURL:          getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGODB_DATABASE", "userdb"),
		MongoCollection:   getEnv("MONGODB_COLLECTION", "users"),
		SpannerProjectID:  getEnv("SPANNER_PROJECT_ID", "local-project"),
		SpannerInstanceID: getEnv("SPANNER_INSTANCE_ID", "local-instance"),
		SpannerDatabaseID: getEnv("SPANNER_DATABASE_ID", "user-db"),
		HTTPHost:          getEnv("HTTP_HOST", ""),
	}

	var errs []error

	switch cfg.StoreBackend {
	case BackendMongo, BackendSpanner, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND: unknown backend %q", cfg.StoreBackend))
	}

	port, err := strconv.Atoi(getEnv("HTTP_PORT", "8080"))
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT: invalid port %q", os.Getenv("HTTP_PORT")))
	}
	cfg.HTTPPort = port

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "30s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
	}
	cfg.ShutdownTimeout = timeout

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	for _, origin := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o := strings.TrimRight(strings.TrimSpace(origin), "/"); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
