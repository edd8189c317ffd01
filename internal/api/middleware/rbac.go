package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminSignInPath is where RequireAdmin sends callers without the admin role.
const AdminSignInPath = "/admin/sign-in"

// RequireAdmin lets a request through only when its session resolved to the
// admin role. Anonymous callers and plain users are redirected to the admin
// sign-in page and the handler is never called.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil || !sess.IsAdmin() {
				return c.Redirect(http.StatusSeeOther, AdminSignInPath)
			}
			return next(c)
		}
	}
}
