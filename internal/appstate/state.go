// Package appstate tracks cross-cutting runtime flags: whether anyone has
// authenticated yet and which source the served dataset came from.
package appstate

import (
	"sync"

	"github.com/troyes-analytics/effectif/internal/squad"
)

// State is safe for concurrent use by handlers and the refresher.
type State struct {
	mu            sync.RWMutex
	authenticated bool
	source        squad.Source
}

// New starts with the fallback source until the first acquisition lands.
func New() *State {
	return &State{source: squad.SourceFallback}
}

// MarkAuthenticated records that at least one login has succeeded.
func (s *State) MarkAuthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
}

// Authenticated reports whether any login has succeeded since startup.
func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SetSource records where the currently served dataset came from.
func (s *State) SetSource(source squad.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// Source returns the origin of the currently served dataset.
func (s *State) Source() squad.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}
