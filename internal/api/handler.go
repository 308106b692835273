// Package api exposes the SocialSpark HTTP surface: generation endpoints,
// the LinkedIn OAuth login/callback pair, the publish endpoint, and the
// embedded web UI.
package api

import (
	"github.com/socialspark/socialspark/internal/auth/popup"
	"github.com/socialspark/socialspark/internal/auth/state"
	"github.com/socialspark/socialspark/internal/generate"
	"github.com/socialspark/socialspark/internal/linkedin"
)

// KeySource answers whether a generation API key is configured. Reads go
// through the client's own synchronization so a concurrent config reload
// never races with request handling.
type KeySource interface {
	HasKey() bool
}

// Handler carries the collaborators the route handlers need.
type Handler struct {
	keys      KeySource
	generator *generate.Service
	auth      *linkedin.Auth
	publisher *linkedin.Publisher
	states    *state.Store
	messenger *popup.Messenger
}

// NewHandler constructs a Handler over the given collaborators. messenger may
// be nil when no Go-side flow waits on callbacks.
func NewHandler(keys KeySource, generator *generate.Service, auth *linkedin.Auth, publisher *linkedin.Publisher, states *state.Store, messenger *popup.Messenger) *Handler {
	return &Handler{
		keys:      keys,
		generator: generator,
		auth:      auth,
		publisher: publisher,
		states:    states,
		messenger: messenger,
	}
}
