package api

import (
	"net"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/conecta/user-api/docs"
	"github.com/conecta/user-api/internal/api/handler"
	"github.com/conecta/user-api/internal/api/middleware"
	"github.com/conecta/user-api/internal/core/domain"
	"github.com/conecta/user-api/internal/core/ports"
)

// RouterConfig carries the dependencies of the HTTP layer.
type RouterConfig struct {
	Logger zerolog.Logger

	Auth   ports.AuthService
	Users  ports.UserService
	Tokens ports.TokenParser

	// LoginLimiter throttles POST /auth/login; nil disables throttling.
	LoginLimiter middleware.AttemptLimiter
	// HealthChecks are pinged by GET /health/ready.
	HealthChecks map[string]handler.Pinger
	CORSOrigins  []string
	// TrustedProxies are the CIDRs whose X-Forwarded-For is honoured when
	// resolving the client IP. Empty uses the peer address.
	TrustedProxies []string

	// Registerer and Gatherer back the HTTP metrics and /metrics. When nil a
	// private registry is used.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)
	e.IPExtractor = ipExtractor(cfg.TrustedProxies)

	registerer, gatherer := cfg.Registerer, cfg.Gatherer
	if registerer == nil || gatherer == nil {
		reg := prometheus.NewRegistry()
		registerer, gatherer = reg, reg
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(cfg.Auth)
	userHandler := handler.NewUserHandler(cfg.Users)
	healthHandler := handler.NewHealthHandler(cfg.HealthChecks)
	authenticate := middleware.Auth(cfg.Tokens, cfg.Users)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Public ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/api/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	var loginMiddleware []echo.MiddlewareFunc
	if cfg.LoginLimiter != nil {
		loginMiddleware = append(loginMiddleware, middleware.LoginRateLimit(cfg.LoginLimiter, cfg.Logger))
	}
	e.POST("/auth/login", authHandler.Login, loginMiddleware...)
	e.POST("/auth/register", authHandler.Register)
	e.GET("/auth/profile", authHandler.Profile, authenticate, middleware.RBAC())

	// --- User routes ---
	users := e.Group("/users", authenticate)
	users.POST("", userHandler.Create, adminOnly)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/inactive", userHandler.Inactive, adminOnly)
	users.GET("/:id", userHandler.Get, adminOnly)
	users.PATCH("/:id", userHandler.Update, middleware.RBAC())
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	return e
}

// ipExtractor ignores client-supplied forwarding headers unless the peer is a
// listed proxy.
func ipExtractor(trusted []string) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		if _, ipNet, err := net.ParseCIDR(cidr); err == nil {
			opts = append(opts, echo.TrustIPRange(ipNet))
		}
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
