package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openblog/blog-api/internal/api/middleware"
	"github.com/openblog/blog-api/internal/core/domain"
	"github.com/openblog/blog-api/internal/core/ports"
)

// ctxClaims extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a missing or
// structurally incomplete identity means the route was reached without a
// usable token, so reject with 401 rather than panic downstream.
func ctxClaims(c echo.Context) (ports.Claims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil || claims.UserID < 1 || claims.RoleID < 1 {
		return ports.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return *claims, nil
}

// parseID parses a numeric path parameter. Non-integer values are classified
// the same as non-positive ones; the service re-checks the sign.
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
