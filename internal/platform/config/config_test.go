package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rai/user-management-api/internal/platform/config"
)

var keys = []string{
	"STORE_BACKEND", "MONGODB_URL", "MONGODB_DATABASE", "MONGODB_COLLECTION",
	"SPANNER_PROJECT_ID", "SPANNER_INSTANCE_ID", "SPANNER_DATABASE_ID",
	"HTTP_HOST", "HTTP_PORT", "CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT", "LOG_LEVEL",
}

// clearEnv blanks every key so defaults apply; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StoreBackend != config.BackendMongo {
		t.Errorf("StoreBackend = %q", cfg.StoreBackend)
	}
	if cfg.MongoURL != "mongodb://localhost:27017" || cfg.MongoDatabase != "userdb" || cfg.MongoCollection != "users" {
		t.Errorf("unexpected mongo settings: %+v", cfg)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "MONGODB_URL=mongodb://db:27017\nHTTP_PORT=9090\nLOG_LEVEL=debug\nCORS_ALLOWED_ORIGINS=http://a.io/, http://b.io\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// Cleared keys are set-but-empty, which godotenv never overrides;
	// unset the ones the file provides.
	for _, k := range []string{"MONGODB_URL", "HTTP_PORT", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS"} {
		os.Unsetenv(k)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MongoURL != "mongodb://db:27017" {
		t.Errorf("MongoURL = %q", cfg.MongoURL)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if strings.Join(cfg.CORSAllowedOrigins, " ") != "http://a.io http://b.io" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)

	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STORE_BACKEND", "postgres"},
		{"HTTP_PORT", "http"},
		{"HTTP_PORT", "70000"},
		{"SHUTDOWN_TIMEOUT", "soon"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load("")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should name %s", err, tt.key)
			}
		})
	}
}
