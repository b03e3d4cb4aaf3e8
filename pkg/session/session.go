// Package session stores the signed-in user's API token between CLI runs.
//
// Backends:
//   - [FileStore]: ~/.config/jiapu/session.json, mode 0600
//   - [MemoryStore]: tests and the layout server
//   - [RedisStore]: shared across machines, keyed by profile
//
// A store holds at most one session. Expired sessions read as nil.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/jiapu/pkg/family"
)

// ErrNoToken is returned by Require when no usable session is stored.
var ErrNoToken = errors.New("not logged in")

// DefaultTTL is how long a stored login is trusted locally. The server may
// reject the token earlier, in which case the API client clears it.
const DefaultTTL = 30 * 24 * time.Hour

// Session is a stored login.
type Session struct {
	Token     string       `json:"token"`
	User      *family.User `json:"user,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// New returns a session for token and user expiring after ttl
// (DefaultTTL when ttl is zero).
func New(token string, user *family.User, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired. A zero ExpiresAt
// never expires.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Store holds the current session.
type Store interface {
	// Get returns the stored session, or nil, nil when there is none or it
	// has expired.
	Get(ctx context.Context) (*Session, error)

	// Set replaces the stored session.
	Set(ctx context.Context, s *Session) error

	// Clear removes the stored session. Clearing an empty store is not an
	// error.
	Clear(ctx context.Context) error
}

// Token returns the stored bearer token, or "" when not logged in.
func Token(ctx context.Context, store Store) (string, error) {
	if store == nil {
		return "", nil
	}
	s, err := store.Get(ctx)
	if err != nil || s == nil {
		return "", err
	}
	return s.Token, nil
}

// Require returns the stored session or ErrNoToken.
func Require(ctx context.Context, store Store) (*Session, error) {
	s, err := store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Token == "" {
		return nil, ErrNoToken
	}
	return s, nil
}
