// Package session holds the LinkedIn AuthSession the share dispatcher acts
// with. Stores are explicit get/set/clear abstractions so callers never touch
// ambient global state.
package session

import (
	"sync"
)

// AuthSession is the token and identity pair obtained from a completed
// authorization. The token's validity is provider-determined; no expiry is
// tracked client-side.
type AuthSession struct {
	AccessToken string `json:"access_token"`
	MemberURN   string `json:"member_urn"`
}

// Valid reports whether both halves of the pair are present.
func (s AuthSession) Valid() bool {
	return s.AccessToken != "" && s.MemberURN != ""
}

// Store persists at most one AuthSession.
type Store interface {
	// Get returns the cached session, if any.
	Get() (AuthSession, bool)
	// Set replaces the cached session.
	Set(session AuthSession) error
	// Clear drops the cached session.
	Clear() error
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	session AuthSession
	set     bool
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the cached session, if any.
func (m *MemoryStore) Get() (AuthSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set || !m.session.Valid() {
		return AuthSession{}, false
	}
	return m.session, true
}

// Set replaces the cached session.
func (m *MemoryStore) Set(session AuthSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = session
	m.set = true
	return nil
}

// Clear drops the cached session.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = AuthSession{}
	m.set = false
	return nil
}
