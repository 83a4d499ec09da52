package chat

import (
	"github.com/labstack/echo/v4"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/plugins/auth"
)

// RegisterRoutes wires the chat routes. Both require a logged-in traveler.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	requireAuth := auth.RequireAuth()

	e.GET("/chat", h.GetChat, requireAuth)
	e.POST("/chat/:id/message", h.PostMessage, requireAuth)
}
