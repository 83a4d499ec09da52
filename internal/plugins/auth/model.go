// Package auth manages traveler sessions. Credentials are never verified or
// stored locally; the external tour-guide API owns accounts, and this plugin
// holds the resulting bearer token in an HttpOnly cookie and caches the
// verified profile in Redis so public pages don't hammer /api/me.
package auth

import "github.com/ESSAFI01/Morocco-Tour-Guide/internal/guide"

// Session is a verified traveler session: the bearer token accepted by the
// upstream API plus the profile it resolved to. User is nil when login
// succeeded but the follow-up profile fetch did not; the token is still
// valid and the profile is fetched lazily on the next request.
type Session struct {
	Token string
	User  *guide.Profile
}

// Name returns the traveler's display name, or "" when the profile is not
// loaded.
func (s *Session) Name() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Name
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// SignupRequest is the signup form payload.
type SignupRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}
