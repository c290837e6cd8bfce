package middleware

import (
	"spice-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

const userKey = "user"

// RequireSession rejects requests while nobody is logged in and exposes the
// current user to handlers under "user".
func RequireSession(session service.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := session.CurrentUser()
			if user == nil {
				return service.ErrNotAuthenticated
			}
			c.Set(userKey, user)
			return next(c)
		}
	}
}

func RequireAdmin(session service.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := session.CurrentUser()
			if user == nil {
				return service.ErrNotAuthenticated
			}
			if !user.IsAdmin() {
				return service.ErrForbidden
			}
			c.Set(userKey, user)
			return next(c)
		}
	}
}
