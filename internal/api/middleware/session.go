package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/civicreport/civic-portal/internal/api/metrics"
	"github.com/civicreport/civic-portal/internal/core/domain"
	"github.com/civicreport/civic-portal/internal/core/session"
)

// ContextKey is the echo context key under which the resolved session
// context is stored. Handlers read it via handler.CurrentSession.
const ContextKey = "session_context"

// TokenKey is the echo context key holding the raw bearer token of an
// authenticated request.
const TokenKey = "session_token"

// SessionResolver turns a bearer token into a live identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// OptionalSession resolves the request's bearer token, if any, into a
// session context before the handler runs. Requests without a valid session
// proceed as Anonymous; the handler never sees the Unknown state.
func OptionalSession(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				c.Set(ContextKey, session.Anonymous())
				metrics.SessionResolutionsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			user, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				// Fail closed: an unverifiable session is no session.
				c.Set(ContextKey, session.Anonymous())
				metrics.SessionResolutionsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			c.Set(ContextKey, session.Authenticated(*user))
			c.Set(TokenKey, token)
			metrics.SessionResolutionsTotal.WithLabelValues("authenticated").Inc()
			return next(c)
		}
	}
}

// RequireSession behaves like OptionalSession but rejects anonymous
// requests with 401.
func RequireSession(resolver SessionResolver) echo.MiddlewareFunc {
	optional := OptionalSession(resolver)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return optional(func(c echo.Context) error {
			sc, _ := c.Get(ContextKey).(session.Context)
			if !sc.IsAuthenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		})
	}
}

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
