// Package session issues and validates bearer tokens for the REST API.
// Tokens live in memory only; a restart logs everyone out.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is used when no session lifetime is configured.
const DefaultTTL = 24 * time.Hour

// Store holds active tokens with their expiry times.
type Store struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration

	// now is swapped in tests to control expiry.
	now func() time.Time
}

// NewStore creates a token store with the given lifetime per token.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a fresh token and registers it.
func (s *Store) Issue() string {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = s.now().Add(s.ttl)
	return token
}

// Valid reports whether the token exists and has not expired.
// Expired tokens are dropped as they are seen.
func (s *Store) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke removes the token immediately.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Active returns the number of live tokens, pruning expired ones.
func (s *Store) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, expiry := range s.tokens {
		if now.After(expiry) {
			delete(s.tokens, token)
		}
	}
	return len(s.tokens)
}
