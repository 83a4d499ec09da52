package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/apperror"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/guide"
)

// mockSessionService implements SessionService with function fields so each
// test supplies only the calls it expects.
type mockSessionService struct {
	loginFn    func(ctx context.Context, email, password string) (*Session, error)
	registerFn func(ctx context.Context, name, email, password string) error
	verifyFn   func(ctx context.Context, token string) (*Session, error)
	logoutFn   func(ctx context.Context, token string)
}

func (m *mockSessionService) Login(ctx context.Context, email, password string) (*Session, error) {
	if m.loginFn == nil {
		return nil, errors.New("unexpected Login call")
	}
	return m.loginFn(ctx, email, password)
}

func (m *mockSessionService) Register(ctx context.Context, name, email, password string) error {
	if m.registerFn == nil {
		return errors.New("unexpected Register call")
	}
	return m.registerFn(ctx, name, email, password)
}

func (m *mockSessionService) Verify(ctx context.Context, token string) (*Session, error) {
	if m.verifyFn == nil {
		return nil, errors.New("unexpected Verify call")
	}
	return m.verifyFn(ctx, token)
}

func (m *mockSessionService) Logout(ctx context.Context, token string) {
	if m.logoutFn != nil {
		m.logoutFn(ctx, token)
	}
}

func newTestHandler(svc SessionService) *Handler {
	return NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// postForm builds an echo context for a form POST.
func postForm(path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// findSessionCookie returns the morocco_session cookie from a response, or
// nil when none was written.
func findSessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestPostLogin_SetsSessionCookie(t *testing.T) {
	svc := &mockSessionService{
		loginFn: func(ctx context.Context, email, password string) (*Session, error) {
			return &Session{Token: "tok-1", User: aliceProfile()}, nil
		},
	}
	c, rec := postForm("/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"hunter22"},
	})

	if err := newTestHandler(svc).PostLogin(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303 redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/chat" {
		t.Errorf("expected redirect to /chat, got %q", loc)
	}

	cookie := findSessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected a session cookie to be written")
	}
	if cookie.Value != "tok-1" {
		t.Errorf("expected cookie to hold the token, got %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if cookie.MaxAge <= 0 {
		t.Errorf("session cookie must persist, got MaxAge %d", cookie.MaxAge)
	}
}

func TestPostLogin_RejectedWritesNoCookie(t *testing.T) {
	svc := &mockSessionService{
		loginFn: func(ctx context.Context, email, password string) (*Session, error) {
			return nil, &guide.APIError{Status: http.StatusUnauthorized, Detail: "Incorrect Email and/or Password"}
		},
	}
	c, rec := postForm("/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"wrong"},
	})

	if err := newTestHandler(svc).PostLogin(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cookie := findSessionCookie(rec); cookie != nil {
		t.Errorf("a failed login must not touch the session cookie, got %+v", cookie)
	}
	if !strings.Contains(rec.Body.String(), "Incorrect Email and/or Password") {
		t.Errorf("expected the upstream detail under the form, got: %s", rec.Body.String())
	}
}

func TestPostLogout_ClearsSessionCookie(t *testing.T) {
	var loggedOut string
	svc := &mockSessionService{
		logoutFn: func(ctx context.Context, token string) {
			loggedOut = token
		},
	}
	c, rec := postForm("/logout", url.Values{})
	c.Request().AddCookie(&http.Cookie{Name: sessionCookieName, Value: "tok-1"})

	if err := newTestHandler(svc).PostLogout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loggedOut != "tok-1" {
		t.Errorf("expected the cached profile to be dropped for tok-1, got %q", loggedOut)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}

	cookie := findSessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected a clearing Set-Cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("expected the cookie cleared, got value %q MaxAge %d", cookie.Value, cookie.MaxAge)
	}
}

func TestLoadSession_ClearsCookieOnFailedVerification(t *testing.T) {
	svc := &mockSessionService{
		verifyFn: func(ctx context.Context, token string) (*Session, error) {
			return nil, ErrSessionExpired
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := LoadSession(svc)(func(c echo.Context) error {
		if SessionFromContext(c) != nil {
			t.Error("expected the request to continue unauthenticated")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cookie := findSessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected the stale token to be cleared")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("expected a clearing Set-Cookie, got value %q MaxAge %d", cookie.Value, cookie.MaxAge)
	}
}

func TestLoadSession_WritesRotatedToken(t *testing.T) {
	svc := &mockSessionService{
		verifyFn: func(ctx context.Context, token string) (*Session, error) {
			return &Session{Token: "tok-2", User: aliceProfile()}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "tok-1"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := LoadSession(svc)(func(c echo.Context) error {
		sess := SessionFromContext(c)
		if sess == nil || sess.Token != "tok-2" {
			t.Errorf("expected the rotated session in context, got %+v", sess)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cookie := findSessionCookie(rec)
	if cookie == nil || cookie.Value != "tok-2" {
		t.Fatalf("expected the rotated token written to the cookie, got %+v", cookie)
	}
}

func TestRequireAuth_Anonymous(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := RequireAuth()(func(c echo.Context) error {
		t.Error("handler must not run for anonymous requests")
		return nil
	})

	err := handler(c)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected a 401 domain error, got %v", err)
	}
}
