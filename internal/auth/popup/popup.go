// Package popup coordinates a pending browser authorization as a single-shot
// asynchronous channel: the flow opens the authorization page, then waits for
// the OAuth callback to deliver exactly one result for the registered state.
// A liveness ticker notices abandonment without blocking anything else.
package popup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/socialspark/socialspark/internal/session"
)

// ErrClosed is returned when the authorization is abandoned (context
// cancelled or deadline reached) before any result arrives.
var ErrClosed = errors.New("popup: closed before authentication")

// ErrOpenFailed is returned when the authorization page could not be opened.
var ErrOpenFailed = errors.New("popup: could not open authorization page")

// pollInterval is how often the liveness check runs while waiting.
const pollInterval = 500 * time.Millisecond

// defaultTimeout bounds how long an authorization may stay pending.
const defaultTimeout = 5 * time.Minute

// Result is the terminal outcome of one authorization, produced once per
// popup lifecycle and consumed exactly once.
type Result struct {
	Session session.AuthSession
	Err     string
}

// OpenFunc opens the authorization URL for the user. It reports an error when
// no browser window could be opened.
type OpenFunc func(url string) error

// URLFunc builds the authorization URL for a freshly registered state.
type URLFunc func() (authURL, state string)

// Messenger tracks at most one pending authorization per state and resolves
// each exactly once.
type Messenger struct {
	openURL OpenFunc
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]chan Result
}

// NewMessenger constructs a Messenger that opens URLs with openURL.
func NewMessenger(openURL OpenFunc) *Messenger {
	return &Messenger{
		openURL: openURL,
		timeout: defaultTimeout,
		pending: make(map[string]chan Result),
	}
}

// SetTimeout overrides the pending-authorization deadline. Used by tests.
func (m *Messenger) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		m.timeout = timeout
	}
}

// Authorize runs one authorization: build the URL via buildURL, open it, and
// wait for the callback to deliver the result for that state. Exactly one of
// the returned session or error is produced per invocation, and the pending
// registration is always torn down afterwards.
func (m *Messenger) Authorize(ctx context.Context, buildURL URLFunc) (session.AuthSession, error) {
	authURL, state := buildURL()

	ch := make(chan Result, 1)
	m.mu.Lock()
	if _, exists := m.pending[state]; exists {
		m.mu.Unlock()
		return session.AuthSession{}, fmt.Errorf("popup: authorization already pending for this state")
	}
	m.pending[state] = ch
	m.mu.Unlock()
	defer m.remove(state)

	if err := m.openURL(authURL); err != nil {
		return session.AuthSession{}, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	deadline := time.Now().Add(m.timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case result := <-ch:
			if result.Err != "" {
				return session.AuthSession{}, fmt.Errorf("popup: authorization failed: %s", result.Err)
			}
			if !result.Session.Valid() {
				return session.AuthSession{}, fmt.Errorf("popup: authorization result incomplete")
			}
			return result.Session, nil
		case <-ctx.Done():
			return session.AuthSession{}, ErrClosed
		case <-ticker.C:
			if time.Now().After(deadline) {
				return session.AuthSession{}, ErrClosed
			}
		}
	}
}

// Complete delivers the terminal result for state to its pending
// authorization, if one exists. Later deliveries for the same state are
// dropped.
func (m *Messenger) Complete(state string, result Result) {
	m.mu.Lock()
	ch, ok := m.pending[state]
	m.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- result:
	default:
		log.Debug("popup: result channel full, dropping result")
	}
}

func (m *Messenger) remove(state string) {
	m.mu.Lock()
	delete(m.pending, state)
	m.mu.Unlock()
}
