package auth

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/apperror"
)

// sessionContextKey is where LoadSession stores the verified session on the
// Echo context.
const sessionContextKey = "auth_session"

// SessionFromContext returns the verified session for the current request,
// or nil when the traveler is not logged in. Only meaningful after
// LoadSession has run.
func SessionFromContext(c echo.Context) *Session {
	sess, _ := c.Get(sessionContextKey).(*Session)
	return sess
}

// LoadSession resolves the session cookie on every request without ever
// blocking one. A token that fails verification is cleared silently, exactly
// as if the traveler had never logged in; the request continues
// unauthenticated and protected routes redirect to the login page. Rotated
// tokens are written back to the cookie here.
func LoadSession(svc SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c)
			if token == "" {
				return next(c)
			}

			sess, err := svc.Verify(c.Request().Context(), token)
			if err != nil {
				clearSessionCookie(c)
				if !errors.Is(err, ErrSessionExpired) {
					slog.Warn("session verify failed",
						slog.Any("error", err),
						slog.String("path", c.Request().URL.Path),
					)
				}
				return next(c)
			}

			if sess.Token != token {
				setSessionCookie(c, sess.Token)
			}
			c.Set(sessionContextKey, sess)

			return next(c)
		}
	}
}

// RequireAuth guards routes that need a logged-in traveler. Anonymous
// requests surface a 401 domain error; the central error handler turns it
// into a redirect to the login page (HX-Redirect for htmx requests so the
// whole window navigates instead of swapping a fragment).
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if SessionFromContext(c) == nil {
				return apperror.NewUnauthorized("You need to log in to access this page.")
			}
			return next(c)
		}
	}
}
