package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/middleware"
)

// RegisterRoutes wires the auth routes. Credential endpoints get a tight
// per-IP rate limit since each POST fans out to the upstream API.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	credentialLimit := middleware.RateLimit(10, time.Minute)

	e.GET("/login", h.GetLogin)
	e.POST("/login", h.PostLogin, credentialLimit)

	e.GET("/signup", h.GetSignup)
	e.POST("/signup", h.PostSignup, credentialLimit)

	e.POST("/logout", h.PostLogout)
}
