package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rai/user-management-api/internal/platform/config"
	"github.com/rai/user-management-api/internal/platform/mongodb"
	"github.com/rai/user-management-api/internal/platform/spanner"
	"github.com/rai/user-management-api/modules/users/domain"
	"github.com/rai/user-management-api/modules/users/infrastructure/persistence"
)

// openStore connects the configured backend and returns the user repository
// with a function that releases it.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (domain.UserRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		mongoCfg := mongodb.Config{
			URL:        cfg.MongoURL,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		}
		client, err := mongodb.NewClient(ctx, mongoCfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("failed to disconnect mongodb", slog.Any("error", err))
			}
		}

		repo := persistence.NewMongoRepository(mongodb.Collection(client, mongoCfg))
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		logger.Info("connected to mongodb",
			slog.String("database", mongoCfg.Database),
			slog.String("collection", mongoCfg.Collection),
		)
		return repo, closeFn, nil

	case config.BackendSpanner:
		spannerCfg := spanner.Config{
			ProjectID:  cfg.SpannerProjectID,
			InstanceID: cfg.SpannerInstanceID,
			DatabaseID: cfg.SpannerDatabaseID,
		}
		client, err := spanner.NewClient(ctx, spannerCfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to spanner", slog.String("dsn", spannerCfg.DSN()))
		return persistence.NewSpannerRepository(client), client.Close, nil

	case config.BackendMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return persistence.NewInMemoryRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
