package guide

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/config"
)

// newTestClient points a client at the given test server.
func newTestClient(srv *httptest.Server) *Client {
	return NewClient(config.GuideConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form-encoded content type, got %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		// The upstream speaks OAuth2 password grant: email arrives as "username".
		if got := r.PostFormValue("username"); got != "alice@example.com" {
			t.Errorf("expected username alice@example.com, got %q", got)
		}
		if got := r.PostFormValue("password"); got != "hunter22" {
			t.Errorf("expected password hunter22, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-123",
			"token_type":   "bearer",
		})
	}))
	defer srv.Close()

	token, err := newTestClient(srv).Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("expected token tok-123, got %q", token)
	}
}

func TestLogin_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect Email and/or Password"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Login(context.Background(), "alice@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.Status)
	}
	if apiErr.Detail != "Incorrect Email and/or Password" {
		t.Errorf("expected upstream detail, got %q", apiErr.Detail)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Login(context.Background(), "alice@example.com", "hunter22")
	if err == nil {
		t.Fatal("expected error for response without access_token")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("malformed success body should be a transport failure, got *APIError: %v", err)
	}
}

func TestLogin_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed before use: connection refused.

	_, err := newTestClient(srv).Login(context.Background(), "alice@example.com", "hunter22")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not be an *APIError: %v", err)
	}
}

func TestRegister_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/createUser" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("register must not carry credentials, got %q", auth)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		want := map[string]string{"name": "Alice", "email": "alice@example.com", "password": "hunter22"}
		for k, v := range want {
			if body[k] != v {
				t.Errorf("expected %s=%q, got %q", k, v, body[k])
			}
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer srv.Close()

	if err := newTestClient(srv).Register(context.Background(), "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "User with this email already exists"})
	}))
	defer srv.Close()

	err := newTestClient(srv).Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Detail != "User with this email already exists" {
		t.Errorf("expected upstream detail, got %q", apiErr.Detail)
	}
}

func TestWhoAmI_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/me" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-123" {
			t.Errorf("expected bearer token, got %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":    "u1",
			"name":  "Alice",
			"email": "alice@example.com",
		})
	}))
	defer srv.Close()

	profile, err := newTestClient(srv).WhoAmI(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "Alice" || profile.Email != "alice@example.com" {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if profile.AccessToken != "" {
		t.Errorf("expected no rotated token, got %q", profile.AccessToken)
	}
}

func TestWhoAmI_RotatedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id":           "u1",
			"name":         "Alice",
			"email":        "alice@example.com",
			"access_token": "tok-456",
		})
	}))
	defer srv.Close()

	profile, err := newTestClient(srv).WhoAmI(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.AccessToken != "tok-456" {
		t.Errorf("expected rotated token tok-456, got %q", profile.AccessToken)
	}
}

func TestWhoAmI_Expired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Credentials are not valid"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).WhoAmI(context.Background(), "stale")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.Status)
	}
}

func TestAsk_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tourist" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-123" {
			t.Errorf("expected bearer token, got %q", auth)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["query"] != "What is Chefchaouen?" {
			t.Errorf("unexpected query %q", body["query"])
		}
		json.NewEncoder(w).Encode(map[string]string{"Answer": "The Blue City"})
	}))
	defer srv.Close()

	answer, err := newTestClient(srv).Ask(context.Background(), "tok-123", "What is Chefchaouen?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "The Blue City" {
		t.Errorf("expected answer, got %q", answer)
	}
}

func TestAsk_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Error ocurred"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Ask(context.Background(), "tok-123", "hello")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.Status)
	}
}

func TestSaveConversation(t *testing.T) {
	var saved map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/saveConversation" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&saved)
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer srv.Close()

	err := newTestClient(srv).SaveConversation(context.Background(), "tok-123", "q", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved["query"] != "q" || saved["response"] != "a" {
		t.Errorf("unexpected payload: %v", saved)
	}
}
