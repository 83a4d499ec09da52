package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/apperror"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/guide"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/middleware"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/templates/pages"
)

// sessionCookieName holds the upstream bearer token.
const sessionCookieName = "morocco_session"

// sessionCookieMaxAge keeps the cookie across browser restarts. The token's
// real lifetime is decided upstream; an expired one is cleared on the first
// request that fails verification.
const sessionCookieMaxAge = 30 * 24 * 60 * 60

// Fallback form errors for upstream rejections that carry no detail message.
const (
	loginFailedMessage  = "Login Failed"
	signupFailedMessage = "Registration Failed"
)

// Handler serves the login, signup, and logout routes.
type Handler struct {
	svc    SessionService
	logger *slog.Logger
}

// NewHandler creates the auth handler.
func NewHandler(svc SessionService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With("plugin", "auth")}
}

// GetLogin renders the login page. Travelers who already have a session are
// sent straight to the chat.
func (h *Handler) GetLogin(c echo.Context) error {
	if SessionFromContext(c) != nil {
		return c.Redirect(http.StatusSeeOther, "/chat")
	}
	return middleware.Render(c, http.StatusOK, pages.Login(pages.LoginForm{}))
}

// PostLogin handles a login attempt. Failures re-render the form with the
// upstream's own explanation; success sets the session cookie and navigates
// to the chat.
func (h *Handler) PostLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid form submission")
	}
	req.Email = strings.TrimSpace(req.Email)

	form := pages.LoginForm{Email: req.Email}
	if req.Email == "" || req.Password == "" {
		form.Error = "Email and password are required"
		return h.renderLogin(c, form)
	}

	sess, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		form.Error = apperror.SafeMessage(authError(err, loginFailedMessage))
		h.logger.Info("login failed", "error", err)
		return h.renderLogin(c, form)
	}

	setSessionCookie(c, sess.Token)
	h.logger.Info("login succeeded", "user", sess.Name())

	return hxRedirect(c, "/chat")
}

// GetSignup renders the signup page.
func (h *Handler) GetSignup(c echo.Context) error {
	if SessionFromContext(c) != nil {
		return c.Redirect(http.StatusSeeOther, "/chat")
	}
	return middleware.Render(c, http.StatusOK, pages.Signup(pages.SignupForm{}))
}

// PostSignup handles a registration attempt. The upstream does not log the
// traveler in on success, so a fresh account lands on the login page.
func (h *Handler) PostSignup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid form submission")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	form := pages.SignupForm{Name: req.Name, Email: req.Email}
	switch {
	case req.Name == "" || req.Email == "" || req.Password == "":
		form.Error = "All fields are required"
		return h.renderSignup(c, form)
	case len(req.Password) < 8:
		form.Error = "Password must be at least 8 characters"
		return h.renderSignup(c, form)
	}

	if err := h.svc.Register(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		form.Error = apperror.SafeMessage(authError(err, signupFailedMessage))
		h.logger.Info("signup failed", "error", err)
		return h.renderSignup(c, form)
	}

	h.logger.Info("signup succeeded", "email", req.Email)

	return hxRedirect(c, "/login")
}

// PostLogout drops the session and returns to the landing page.
func (h *Handler) PostLogout(c echo.Context) error {
	if token := sessionToken(c); token != "" {
		h.svc.Logout(c.Request().Context(), token)
	}
	clearSessionCookie(c)

	return hxRedirect(c, "/")
}

func (h *Handler) renderLogin(c echo.Context, form pages.LoginForm) error {
	if middleware.IsHTMX(c) {
		return middleware.Render(c, http.StatusOK, pages.LoginFormFragment(form))
	}
	return middleware.Render(c, http.StatusOK, pages.Login(form))
}

func (h *Handler) renderSignup(c echo.Context, form pages.SignupForm) error {
	if middleware.IsHTMX(c) {
		return middleware.Render(c, http.StatusOK, pages.SignupFormFragment(form))
	}
	return middleware.Render(c, http.StatusOK, pages.Signup(form))
}

// authError maps a service error into the domain taxonomy: an upstream
// rejection becomes an AuthRejected carrying the upstream's own detail (or
// the fallback when it sent none); anything else means the guide API was
// unreachable.
func authError(err error, fallback string) *apperror.AppError {
	var apiErr *guide.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apperror.NewAuthRejected(apiErr.Detail)
		}
		return apperror.NewAuthRejected(fallback)
	}
	return apperror.NewUpstream(err)
}

// hxRedirect navigates the whole window: HX-Redirect for htmx requests, a
// plain 303 otherwise.
func hxRedirect(c echo.Context, location string) error {
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", location)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, location)
}

// --- Session cookie helpers ---

func sessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   isSecureRequest(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecureRequest(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(c echo.Context) bool {
	return c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https"
}
