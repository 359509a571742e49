// Package session keeps the per-browser session flags. Entries expire after an idle TTL,
// which stands in for the lifetime of the browsing context.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// FlagLoggedIn is the only session fact: set to "true" on login, removed on logout.
const FlagLoggedIn = "isLoggedIn"

// Store is a session-scoped string store.
type Store struct {
	c *cache.Cache
}

// NewStore creates a Store whose entries expire after ttl without access.
func NewStore(ttl time.Duration) *Store {
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Store{c: cache.New(ttl, cleanup)}
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

func key(sessionID, name string) string { return sessionID + ":" + name }

// Set stores value under name for the session.
func (s *Store) Set(sessionID, name, value string) {
	s.c.SetDefault(key(sessionID, name), value)
}

// Get returns the value and refreshes its expiry.
func (s *Store) Get(sessionID, name string) (string, bool) {
	if sessionID == "" {
		return "", false
	}
	v, ok := s.c.Get(key(sessionID, name))
	if !ok {
		return "", false
	}
	str, _ := v.(string)
	s.c.SetDefault(key(sessionID, name), str)
	return str, true
}

// Remove deletes name from the session.
func (s *Store) Remove(sessionID, name string) {
	s.c.Delete(key(sessionID, name))
}

// IsLoggedIn reports whether the login flag is set for the session.
func (s *Store) IsLoggedIn(sessionID string) bool {
	v, ok := s.Get(sessionID, FlagLoggedIn)
	return ok && v == "true"
}
