// Package guide is the HTTP client for the external tour-guide API, which
// owns user accounts, answers traveler questions, and stores conversation
// history. This app never implements any of that itself -- every operation
// here is a thin, typed wrapper over one upstream endpoint.
//
// Two failure modes are distinguished: the upstream explicitly rejecting a
// request (an *APIError carrying the HTTP status and the "detail" message
// from the response body), and transport-level failures (plain wrapped
// errors: connection refused, timeout, malformed body). Callers decide how
// much of either to surface.
package guide

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/config"
)

// Endpoint paths on the upstream API.
const (
	pathLogin    = "/api/login"
	pathRegister = "/api/createUser"
	pathWhoAmI   = "/api/me"
	pathAsk      = "/api/tourist"
	pathSave     = "/api/saveConversation"
)

// maxErrorBody caps how much of an upstream error response is read when
// extracting the detail message.
const maxErrorBody = 64 * 1024

// Profile is the user record returned by /api/me. The upstream owns the
// shape; only the fields this app displays are decoded. AccessToken is set
// when the upstream rotates the bearer token during verification.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CreatedAt   string `json:"created_at"`
	AccessToken string `json:"access_token,omitempty"`
}

// APIError is an explicit rejection from the upstream API: a non-2xx status
// plus whatever "detail" message the response body carried.
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("guide api: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("guide api: status %d", e.Status)
}

// API is the consumer-facing contract. The auth and chat plugins depend on
// this interface, not on *Client, so tests can substitute function mocks.
type API interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) error
	WhoAmI(ctx context.Context, token string) (*Profile, error)
	Ask(ctx context.Context, token, query string) (string, error)
	SaveConversation(ctx context.Context, token, query, response string) error
}

// Client talks to the upstream tour-guide API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API rooted at cfg.BaseURL. Every call
// is bounded by cfg.Timeout.
func NewClient(cfg config.GuideConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Login exchanges credentials for a bearer token via a form-encoded POST to
// /api/login. The upstream expects OAuth2 password-grant field names, so the
// email travels as "username". Returns the access token on success.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathLogin,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", readAPIError(resp)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("login response missing access_token")
	}

	return body.AccessToken, nil
}

// Register creates a new account via a JSON POST to /api/createUser. It does
// not authenticate the caller; a successful registration still requires a
// separate login.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	payload := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}

	resp, err := c.postJSON(ctx, pathRegister, "", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readAPIError(resp)
	}

	return nil
}

// WhoAmI validates a bearer token against /api/me and returns the profile.
// If the upstream rotated the token, Profile.AccessToken holds the
// replacement and the caller must persist it.
func (c *Client) WhoAmI(ctx context.Context, token string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathWhoAmI, nil)
	if err != nil {
		return nil, fmt.Errorf("building whoami request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, readAPIError(resp)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	return &profile, nil
}

// Ask sends a traveler question to /api/tourist and returns the assistant's
// answer text.
func (c *Client) Ask(ctx context.Context, token, query string) (string, error) {
	resp, err := c.postJSON(ctx, pathAsk, token, map[string]string{"query": query})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", readAPIError(resp)
	}

	var body struct {
		Answer string `json:"Answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding answer: %w", err)
	}

	return body.Answer, nil
}

// SaveConversation persists one exchange to /api/saveConversation. Callers
// treat this as best-effort; nothing from the response body is used.
func (c *Client) SaveConversation(ctx context.Context, token, query, response string) error {
	payload := map[string]string{
		"query":    query,
		"response": response,
	}

	resp, err := c.postJSON(ctx, pathSave, token, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readAPIError(resp)
	}

	return nil
}

// postJSON sends a JSON POST to the given path, attaching the bearer token
// when one is provided. The caller owns the response body.
func (c *Client) postJSON(ctx context.Context, path, token string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting %s: %w", path, err)
	}

	return resp, nil
}

// readAPIError turns a non-2xx response into an *APIError, pulling the
// "detail" field out of the body when the upstream provided one.
func readAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Detail = body.Detail
	}

	return apiErr
}
