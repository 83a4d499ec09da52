package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/guide"
)

// ErrSessionExpired signals that a bearer token could not be verified, by
// rejection or by the upstream being unreachable. Either way the session is
// over: callers clear the cookie and send the traveler back to the login
// page without an error message.
var ErrSessionExpired = errors.New("session expired")

// profileCachePrefix namespaces cached profiles in Redis. Keys are the
// SHA-256 of the bearer token so the token itself never lands in Redis.
const profileCachePrefix = "profile:"

// SessionService is the session manager contract. Handlers and middleware
// depend on this interface so tests can substitute mocks.
type SessionService interface {
	// Login exchanges credentials for a session. The returned session may
	// have a nil User if the follow-up profile fetch failed; the token is
	// still usable.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Register creates an account upstream. It does not log the traveler in.
	Register(ctx context.Context, name, email, password string) error

	// Verify checks a bearer token, serving the profile from cache when
	// fresh. Any failure to verify resolves to ErrSessionExpired. If the
	// upstream rotated the token, the returned session carries the
	// replacement and the caller must update the cookie.
	Verify(ctx context.Context, token string) (*Session, error)

	// Logout drops the cached profile for a token. The upstream API has no
	// revocation endpoint, so the token itself simply ages out.
	Logout(ctx context.Context, token string)
}

// Service implements SessionService against the tour-guide API with a Redis
// profile cache.
type Service struct {
	api    guide.API
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewService creates a session service. ttl bounds how long a verified
// profile is trusted before the token is re-verified against /api/me.
func NewService(api guide.API, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("plugin", "auth"),
	}
}

// Login exchanges credentials for a bearer token, then fetches the profile
// to populate the session. A failed profile fetch is not a failed login:
// the token was just issued, so the session is returned without a profile
// and Verify fills it in on the next request.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := s.api.WhoAmI(ctx, token)
	if err != nil {
		s.logger.Warn("profile fetch after login failed", "error", err)
		return &Session{Token: token}, nil
	}

	sess := s.adopt(token, profile)
	s.cacheProfile(ctx, sess)

	return sess, nil
}

// Register creates the account upstream.
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	return s.api.Register(ctx, name, email, password)
}

// Verify resolves a bearer token to a session. Cache hits skip the upstream
// entirely; misses hit /api/me and repopulate the cache. A token that cannot
// be verified, whether rejected or because the upstream was unreachable, is
// treated as expired and its cache entry is dropped.
func (s *Service) Verify(ctx context.Context, token string) (*Session, error) {
	if profile := s.cachedProfile(ctx, token); profile != nil {
		return &Session{Token: token, User: profile}, nil
	}

	profile, err := s.api.WhoAmI(ctx, token)
	if err != nil {
		s.dropProfile(ctx, token)
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	sess := s.adopt(token, profile)
	if sess.Token != token {
		// Token rotated upstream; the stale entry must not serve another hit.
		s.dropProfile(ctx, token)
	}
	s.cacheProfile(ctx, sess)

	return sess, nil
}

// Logout drops the cached profile so a reused token is re-verified.
func (s *Service) Logout(ctx context.Context, token string) {
	s.dropProfile(ctx, token)
}

// adopt builds a session from a profile, switching to the rotated token when
// the upstream issued one.
func (s *Service) adopt(token string, profile *guide.Profile) *Session {
	if profile.AccessToken != "" {
		token = profile.AccessToken
		profile.AccessToken = ""
	}
	return &Session{Token: token, User: profile}
}

// --- Redis profile cache ---

// cacheKey derives the Redis key for a token. Hashing keeps raw bearer
// tokens out of Redis.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return profileCachePrefix + hex.EncodeToString(sum[:])
}

func (s *Service) cacheProfile(ctx context.Context, sess *Session) {
	data, err := json.Marshal(sess.User)
	if err != nil {
		s.logger.Warn("encoding profile for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, cacheKey(sess.Token), data, s.ttl).Err(); err != nil {
		s.logger.Warn("caching profile", "error", err)
	}
}

func (s *Service) cachedProfile(ctx context.Context, token string) *guide.Profile {
	data, err := s.cache.Get(ctx, cacheKey(token)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("reading profile cache", "error", err)
		}
		return nil
	}

	var profile guide.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		s.logger.Warn("decoding cached profile", "error", err)
		return nil
	}

	return &profile
}

func (s *Service) dropProfile(ctx context.Context, token string) {
	if err := s.cache.Del(ctx, cacheKey(token)).Err(); err != nil {
		s.logger.Warn("dropping cached profile", "error", err)
	}
}
