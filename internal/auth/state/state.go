// Package state tracks the anti-replay state tokens issued on login
// redirects. A state is valid for one callback within its TTL; consuming it
// removes it, so a replayed callback is rejected.
package state

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultTTL bounds how long a login redirect may stay outstanding.
const defaultTTL = 10 * time.Minute

// Store issues and validates one-shot state tokens.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]time.Time
}

// NewStore constructs a Store. ttl <= 0 selects the default of ten minutes.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{ttl: ttl, states: make(map[string]time.Time)}
}

// Register issues a fresh state token valid for one callback.
func (s *Store) Register() string {
	state := uuid.NewString()
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeExpiredLocked(now)
	s.states[state] = now.Add(s.ttl)
	return state
}

// Consume validates and retires state. It reports false for unknown, expired
// or already-consumed tokens.
func (s *Store) Consume(state string) bool {
	state = strings.TrimSpace(state)
	if state == "" {
		return false
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeExpiredLocked(now)
	if _, ok := s.states[state]; !ok {
		return false
	}
	delete(s.states, state)
	return true
}

func (s *Store) purgeExpiredLocked(now time.Time) {
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
}
