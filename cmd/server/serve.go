package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/rai/user-management-api/internal/platform/config"
	"github.com/rai/user-management-api/internal/platform/eventbus"
	"github.com/rai/user-management-api/internal/platform/httpserver"
	"github.com/rai/user-management-api/modules/notifications"
	"github.com/rai/user-management-api/modules/users"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.HTTPPort = port
	}

	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	logger.Info("starting user management service", slog.String("store_backend", cfg.StoreBackend))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repository
	repository, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize event bus (for inter-module communication)
	eventBus := eventbus.New(logger)

	// Initialize modules
	usersModule := users.New(users.Config{
		Repository:     repository,
		EventPublisher: eventBus,
		Logger:         logger,
	})

	if _, err := notifications.New(notifications.Config{
		EventSubscriber: eventBus,
		Logger:          logger,
	}); err != nil {
		return fmt.Errorf("failed to initialize notifications: %w", err)
	}

	// Apply middleware
	handler := httpserver.Chain(buildRouter(usersModule),
		httpserver.Recovery(logger),
		httpserver.Logging(logger),
		httpserver.CORS(cfg.CORSAllowedOrigins),
	)

	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTPHost
	serverCfg.Port = cfg.HTTPPort
	serverCfg.ShutdownTimeout = cfg.ShutdownTimeout
	server := httpserver.New(serverCfg, handler, logger)

	if err := server.Run(ctx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

// buildRouter creates the main HTTP router with all module handlers.
func buildRouter(usersModule users.Module) http.Handler {
	r := chi.NewRouter()

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Each module registers its own routes
	usersModule.RegisterRoutes(r)

	return r
}
