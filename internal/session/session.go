package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrNotFound is returned when a token does not resolve to a live session.
var ErrNotFound = errors.New("session not found")

// Store keeps server-side sessions in memory with automatic expiry.
// Tokens are opaque; the client only ever sees them as cookie values.
type Store struct {
	sessions *cache.Cache
	ttl      time.Duration
}

// NewStore creates a session store whose entries expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: cache.New(ttl, 2*ttl),
		ttl:      ttl,
	}
}

// Issue creates a new session for the user and returns its token.
func (s *Store) Issue(userID string) string {
	token := uuid.NewString()
	s.sessions.Set(token, userID, s.ttl)
	return token
}

// Resolve returns the user ID bound to the token.
func (s *Store) Resolve(token string) (string, error) {
	v, found := s.sessions.Get(token)
	if !found {
		return "", ErrNotFound
	}
	return v.(string), nil
}

// Revoke destroys the session for the token, if it exists.
func (s *Store) Revoke(token string) {
	s.sessions.Delete(token)
}

// RevokeAll destroys every live session, forcing all clients back through
// login. Useful after a credential rotation.
func (s *Store) RevokeAll() {
	s.sessions.Flush()
}
