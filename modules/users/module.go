// Package users provides user management functionality.
// This file defines the module's public API - the single interface
// that other modules use to interact with the users bounded context.
package users

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/rai/user-management-api/modules/shared/events"
	"github.com/rai/user-management-api/modules/users/application/commands"
	"github.com/rai/user-management-api/modules/users/application/queries"
	"github.com/rai/user-management-api/modules/users/domain"
	httphandler "github.com/rai/user-management-api/modules/users/infrastructure/http"
	"github.com/rai/user-management-api/modules/users/infrastructure/persistence"
)

// Module is the public API for the users bounded context.
// External communication: HTTP API (RegisterRoutes)
// Cross-module communication: Domain Events (published on every write)
type Module interface {
	// RegisterRoutes registers the module's HTTP routes on the given router.
	RegisterRoutes(r chi.Router)
}

// Config holds the module configuration.
type Config struct {
	// Repository is the user store. Defaults to an in-memory store.
	Repository     domain.UserRepository
	EventPublisher events.Publisher
	Logger         *slog.Logger
}

// module implements the Module interface.
type module struct {
	createUserHandler *commands.CreateUserHandler
	updateUserHandler *commands.UpdateUserHandler
	deleteUserHandler *commands.DeleteUserHandler
	getUserHandler    *queries.GetUserHandler
	listUsersHandler  *queries.ListUsersHandler
	logger            *slog.Logger
}

// New creates a new users module with all dependencies wired.
func New(cfg Config) Module {
	repository := cfg.Repository
	if repository == nil {
		repository = persistence.NewInMemoryRepository()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "users")

	// Wire up command handlers
	createUserHandler := commands.NewCreateUserHandler(repository, cfg.EventPublisher, logger)
	updateUserHandler := commands.NewUpdateUserHandler(repository, cfg.EventPublisher, logger)
	deleteUserHandler := commands.NewDeleteUserHandler(repository, cfg.EventPublisher, logger)

	// Wire up query handlers
	getUserHandler := queries.NewGetUserHandler(repository)
	listUsersHandler := queries.NewListUsersHandler(repository)

	return &module{
		createUserHandler: createUserHandler,
		updateUserHandler: updateUserHandler,
		deleteUserHandler: deleteUserHandler,
		getUserHandler:    getUserHandler,
		listUsersHandler:  listUsersHandler,
		logger:            logger,
	}
}

func (m *module) RegisterRoutes(r chi.Router) {
	httphandler.RegisterRoutes(r, m.createUserHandler, m.updateUserHandler, m.deleteUserHandler, m.getUserHandler, m.listUsersHandler, m.logger)
}
