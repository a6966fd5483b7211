package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openblog/blog-api/internal/api/metrics"
)

// RequireRole gates a route to the given role ids. It runs after Auth; the
// required roles are declared per route in the router, not inside handlers.
func RequireRole(roleIDs ...int) echo.MiddlewareFunc {
	allowed := make(map[int]struct{}, len(roleIDs))
	for _, r := range roleIDs {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if _, ok := allowed[claims.RoleID]; !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("wrong_role").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}
			return next(c)
		}
	}
}
