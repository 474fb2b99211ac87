package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicreport/civic-portal/internal/core/session"
)

// RBAC enforces role-based access control over the resolved session context.
// It must run after RequireSession.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc, _ := c.Get(ContextKey).(session.Context)
			user, ok := sc.User()
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[user.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
