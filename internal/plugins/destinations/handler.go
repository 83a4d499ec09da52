package destinations

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/middleware"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/templates/pages"
)

// Handler serves the landing page and the destinations JSON feed that
// static/js/map.js reads to place the Leaflet markers.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates the destinations handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With("plugin", "destinations")}
}

// GetHome renders the landing page with the destination cards.
func (h *Handler) GetHome(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context())
	if err != nil {
		// The hero and map render fine without cards; the marker feed will
		// report its own failure if MariaDB is really down.
		h.logger.Error("loading destination cards", "error", err)
		list = nil
	}

	cards := make([]pages.DestinationCard, 0, len(list))
	for _, d := range list {
		cards = append(cards, pages.DestinationCard{
			Name:    d.Name,
			Slug:    d.Slug,
			Tagline: d.Tagline,
		})
	}

	return middleware.Render(c, http.StatusOK, pages.Home(cards))
}

// ListJSON returns the full catalog as JSON for the map script.
func (h *Handler) ListJSON(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// GetJSON returns one destination by slug.
func (h *Handler) GetJSON(c echo.Context) error {
	d, err := h.svc.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
