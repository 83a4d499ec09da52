package destinations

import "github.com/labstack/echo/v4"

// RegisterRoutes wires the landing page and the catalog JSON endpoints.
// All of them are public.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", h.GetHome)
	e.GET("/api/destinations", h.ListJSON)
	e.GET("/api/destinations/:slug", h.GetJSON)
}
