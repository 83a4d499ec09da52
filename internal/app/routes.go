package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/middleware"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/plugins/auth"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/plugins/chat"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/plugins/destinations"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/templates/layouts"
)

// themeCookieName stores the traveler's theme preference: "dark" or "light".
// The site defaults to dark.
const themeCookieName = "morocco_theme"

// RegisterRoutes sets up all application routes. It constructs each plugin's
// service and handler, registers the session middleware, and delegates to
// each plugin's route registration function.
//
// This is the single place where all routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo
	logger := slog.Default()

	// --- Session Manager ---
	sessionSvc := auth.NewService(a.Guide, a.Redis, a.Config.Guide.ProfileCacheTTL, logger)

	// Resolve the session cookie on every request so public pages can show
	// the traveler's name in the nav. Runs after CSRF (registered in New).
	e.Use(auth.LoadSession(sessionSvc))

	// Templ components read session and theme state through the layout
	// injector; see internal/middleware/helpers.go.
	middleware.LayoutInjector = layoutInjector

	// --- Plugin Routes ---
	auth.RegisterRoutes(e, auth.NewHandler(sessionSvc, logger))

	chatSvc := chat.NewService(a.Guide, logger)
	chat.RegisterRoutes(e, chat.NewHandler(chatSvc, logger))

	destSvc := destinations.NewService(destinations.NewRepository(a.DB), logger)
	destinations.RegisterRoutes(e, destinations.NewHandler(destSvc, logger))

	// Health check endpoint for Docker health monitoring.
	e.GET("/healthz", a.healthz)
}

// healthz reports whether the app's own infrastructure is reachable. The
// external tour-guide API is deliberately not probed: its outages degrade
// the chat but must not mark this service unhealthy.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := a.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded", "mariadb": err.Error(),
		})
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded", "redis": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// layoutInjector copies per-request state from the Echo context into the Go
// context that templ components render with.
func layoutInjector(c echo.Context, ctx context.Context) context.Context {
	sess := auth.SessionFromContext(c)
	ctx = layouts.SetIsAuthenticated(ctx, sess != nil)
	ctx = layouts.SetUserName(ctx, sess.Name())
	ctx = layouts.SetCSRFToken(ctx, middleware.GetCSRFToken(c))
	ctx = layouts.SetActivePath(ctx, c.Request().URL.Path)
	ctx = layouts.SetDarkMode(ctx, prefersDark(c))
	return ctx
}

// prefersDark reads the theme cookie. No stored preference falls back to
// dark, the site's native look; any stored value other than "dark" means
// light.
func prefersDark(c echo.Context) bool {
	cookie, err := c.Cookie(themeCookieName)
	if err != nil {
		return true
	}
	return cookie.Value == "dark"
}
