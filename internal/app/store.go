// Package app wires configuration, storage and services for the entry points.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/conecta/user-api/internal/core/ports"
	"github.com/conecta/user-api/internal/infrastructure/db/memory"
	"github.com/conecta/user-api/internal/infrastructure/db/mongo"
	"github.com/conecta/user-api/internal/infrastructure/db/postgres"
	"github.com/conecta/user-api/internal/pkg/config"
)

// Store is a user repository that can also report its health.
type Store interface {
	ports.UserRepository
	Ping(ctx context.Context) error
}

// OpenStore connects the repository selected by STORE_DRIVER. The returned
// function releases its connections.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Store, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.NewUserRepository(), func(context.Context) error { return nil }, nil

	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Msg("connected to postgres")
		return postgres.NewUserRepository(pool), func(context.Context) error {
			pool.Close()
			return nil
		}, nil

	case config.StoreMongo:
		repo, disconnect, err := mongo.OpenUserRepository(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return repo, disconnect, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
