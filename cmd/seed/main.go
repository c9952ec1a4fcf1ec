// Command seed upserts the demo admin and user accounts into the configured
// store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/conecta/user-api/internal/app"
	"github.com/conecta/user-api/internal/core/service"
	"github.com/conecta/user-api/internal/pkg/config"
	"github.com/conecta/user-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "seed"})
		l.Fatal().Err(err).Msg("load configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed"})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Msg("seed complete")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore(context.Background()) }()

	users := service.NewUserService(store, log)
	return app.Seed(ctx, users, app.DemoUsers(cfg.Seed), log)
}
