package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/conecta/user-api/internal/api/metrics"
	"github.com/conecta/user-api/internal/core/domain"
)

// AttemptLimiter records an attempt for key and reports whether it is allowed.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LoginRateLimit throttles requests per client IP. Limiter failures let the
// request through.
func LoginRateLimit(limiter AttemptLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			allowed, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("login limiter unavailable")
				return next(c)
			}
			if !allowed {
				metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginRateLimited).Inc()
				return domain.ErrTooManyAttempts
			}
			return next(c)
		}
	}
}
