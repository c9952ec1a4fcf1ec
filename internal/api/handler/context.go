package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/conecta/user-api/internal/api/middleware"
	"github.com/conecta/user-api/internal/core/domain"
)

// currentIdentity extracts the identity injected by the Auth middleware.
// Its absence means the route was wired without the guard.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
