package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/conecta/user-api/internal/api"
	"github.com/conecta/user-api/internal/api/handler"
	"github.com/conecta/user-api/internal/core/service"
	"github.com/conecta/user-api/internal/infrastructure/db/redis"
	"github.com/conecta/user-api/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// RunServer serves the API until ctx is cancelled, then shuts down gracefully.
func RunServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, closeStore, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := closeStore(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	users := service.NewUserService(store, log.With().Str("component", "users").Logger())
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	auth := service.NewAuthService(users, store, tokens, log.With().Str("component", "auth").Logger())

	routerCfg := api.RouterConfig{
		Logger:         log,
		Auth:           auth,
		Users:          users,
		Tokens:         tokens,
		HealthChecks:   map[string]handler.Pinger{"store": store},
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Registerer:     prometheus.DefaultRegisterer,
		Gatherer:       prometheus.DefaultGatherer,
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func(c *goredis.Client) { _ = c.Close() }(rdb)

		limiter := redis.NewLoginLimiter(rdb, cfg.LoginRate.Limit, cfg.LoginRate.Window)
		routerCfg.LoginLimiter = limiter
		routerCfg.HealthChecks["redis"] = limiter
		log.Info().Str("addr", cfg.Redis.Addr).Int("limit", cfg.LoginRate.Limit).Dur("window", cfg.LoginRate.Window).Msg("login rate limiting enabled")
	} else {
		log.Info().Msg("REDIS_ADDR not set; login rate limiting disabled")
	}

	e := api.NewRouter(routerCfg)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
