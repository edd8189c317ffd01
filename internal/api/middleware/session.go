package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
	"github.com/eventhub/storefront/internal/core/session"
)

// Keys under which Session stores values on the echo.Context.
const (
	SessionKey = "session"
	TokenKey   = "token"
)

// Session attaches a fresh session.Context to every request. A valid bearer
// token signs the session in and resolves its role before the handler runs.
// A missing or rejected token leaves the session signed out; RequireAuth and
// RequireAdmin decide what that means for a route.
func Session(provider ports.IdentityProvider, profiles ports.ProfileReader, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			sess := session.New(profiles, log)
			unsubscribe := sess.Bind(ctx, provider)
			defer unsubscribe()

			c.Set(SessionKey, sess)

			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			identity, err := provider.Verify(ctx, token)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthenticated) {
					log.Error().Err(err).Str("path", c.Path()).Msg("token verification failed")
				}
				return next(c)
			}

			c.Set(TokenKey, token)
			sess.HandleAuthState(ctx, identity)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// SessionFrom returns the request's session, or nil when Session did not run.
func SessionFrom(c echo.Context) *session.Context {
	sess, _ := c.Get(SessionKey).(*session.Context)
	return sess
}

// TokenFrom returns the verified bearer token, or "" when none was accepted.
func TokenFrom(c echo.Context) string {
	token, _ := c.Get(TokenKey).(string)
	return token
}
