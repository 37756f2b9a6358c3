package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"reservas/models"
	"reservas/services/api"
	"reservas/utils"
)

var (
	// ErrSessionExpired is returned instead of sending a token known to be expired.
	ErrSessionExpired = fmt.Errorf("session expired: %w", api.ErrUnauthorized)
	// ErrNoSession is returned by calls that need a logged-in user.
	ErrNoSession = errors.New("not logged in")
)

// Session is an in-memory credential provider. It is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	token     string
	user      *models.User
	expiresAt time.Time
	now       func() time.Time
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// NewSessionWithToken returns a session seeded with an existing bearer token.
func NewSessionWithToken(token string) *Session {
	s := NewSession()
	s.Set(token, nil, 0)
	return s
}

// Set stores a token and its user. A ttl of zero falls back to the token's own
// exp claim when it is a JWT, and otherwise never expires locally.
func (s *Session) Set(token string, user *models.User, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	} else if exp, ok, err := utils.TokenExpiry(token); err == nil && ok {
		expiresAt = exp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.expiresAt = expiresAt
}

// SetUser refreshes the cached user without touching the token.
func (s *Session) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Token implements api.CredentialProvider.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, expiresAt := s.token, s.expiresAt
	s.mu.RUnlock()

	if token == "" {
		return "", nil
	}
	if !expiresAt.IsZero() && !s.now().Before(expiresAt) {
		s.Invalidate(ctx)
		return "", ErrSessionExpired
	}
	return token, nil
}

// Invalidate implements api.CredentialProvider. It forgets token and user.
func (s *Session) Invalidate(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.expiresAt = time.Time{}
}

// User returns the logged-in user, if known.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Active reports whether a token is held.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Scope identifies the account behind the held token without exposing it.
// It keys per-account cache entries.
func (s *Session) Scope() string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return "anonymous"
	}
	return utils.HashToken(token)[:16]
}
