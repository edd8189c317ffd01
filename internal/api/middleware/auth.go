package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/eventhub/storefront/internal/core/domain"
)

// RequireAuth rejects requests whose session has no identity.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil || sess.CurrentIdentity() == nil {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}
