package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/conecta/user-api/internal/core/domain"
	"github.com/conecta/user-api/internal/core/ports"
)

// Context keys populated by Auth.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// Auth validates the bearer token, reloads its subject from users and injects
// the stored identity into context. Deleted users are rejected; the stored
// role and email replace the ones in the claims.
func Auth(parser ports.TokenParser, users ports.UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := parser.ParseToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.FindByID(c.Request().Context(), identity.UserID)
			if errors.Is(err, domain.ErrUserNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if err != nil {
				return err
			}

			c.Set(ContextUserID, user.ID)
			c.Set(ContextEmail, user.Email)
			c.Set(ContextRole, string(user.Role))

			return next(c)
		}
	}
}

// IdentityFrom returns the identity set by Auth, or false when the request
// did not pass through it.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	userID, _ := c.Get(ContextUserID).(string)
	role, _ := c.Get(ContextRole).(string)
	if userID == "" || role == "" {
		return domain.Identity{}, false
	}
	email, _ := c.Get(ContextEmail).(string)
	return domain.Identity{UserID: userID, Email: email, Role: domain.Role(role)}, true
}
