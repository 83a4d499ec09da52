package chat

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/middleware"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/plugins/auth"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/templates/pages"
)

// Handler serves the chat page and the message endpoint.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates the chat handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With("plugin", "chat")}
}

// GetChat starts a fresh conversation and renders the chat page. The
// destination cards on the home page deep-link here with ?city=<slug> to
// pre-fill the question box.
func (h *Handler) GetChat(c echo.Context) error {
	sess := auth.SessionFromContext(c)
	conv := h.svc.Create(ownerOf(sess))

	view := pages.ChatView{
		ConversationID: conv.ID,
		UserName:       sess.Name(),
	}
	if city := strings.TrimSpace(c.QueryParam("city")); city != "" {
		view.Prefill = "Tell me about " + titleCase(city)
	}

	return middleware.Render(c, http.StatusOK, pages.Chat(view))
}

// PostMessage runs one exchange and returns the question/answer fragment
// that htmx appends to the transcript.
func (h *Handler) PostMessage(c echo.Context) error {
	sess := auth.SessionFromContext(c)

	conv, err := h.svc.Get(c.Param("id"), ownerOf(sess))
	if err != nil {
		// The conversation was swept or belongs to someone else; a full
		// navigation to /chat starts a fresh one.
		return hxRedirect(c, "/chat")
	}

	question, answer, err := h.svc.Submit(c.Request().Context(), conv, sess.Token, c.FormValue("message"))
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, ErrBusy):
		// htmx leaves the transcript untouched on a non-2xx status.
		return c.NoContent(http.StatusConflict)
	case err != nil:
		return err
	}

	return middleware.Render(c, http.StatusOK, pages.Exchange(
		pages.ChatMessage{FromUser: true, Text: question.Text},
		pages.ChatMessage{HTML: answer.HTML},
	))
}

// ownerOf scopes conversations to the traveler's profile. A session whose
// profile fetch failed owns conversations under the empty ID; the random
// conversation ID still guards them.
func ownerOf(sess *auth.Session) string {
	if sess == nil || sess.User == nil {
		return ""
	}
	return sess.User.ID
}

// titleCase uppercases the first letter of a city slug for the prefill text.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func hxRedirect(c echo.Context, location string) error {
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", location)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, location)
}
