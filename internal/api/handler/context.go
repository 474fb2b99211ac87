package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicreport/civic-portal/internal/api/middleware"
	"github.com/civicreport/civic-portal/internal/core/domain"
	"github.com/civicreport/civic-portal/internal/core/session"
)

// CurrentSession returns the session context resolved by the middleware.
// A request that skipped the session middleware reads as the zero (Unknown)
// context, which answers false to every predicate.
func CurrentSession(c echo.Context) session.Context {
	sc, _ := c.Get(middleware.ContextKey).(session.Context)
	return sc
}

// currentUser extracts the authenticated identity, failing with 401 when the
// session resolved anonymous.
func currentUser(c echo.Context) (domain.User, error) {
	user, ok := CurrentSession(c).User()
	if !ok {
		return domain.User{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

// currentToken returns the raw bearer token of an authenticated request.
func currentToken(c echo.Context) (string, error) {
	token, ok := c.Get(middleware.TokenKey).(string)
	if !ok || token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return token, nil
}
