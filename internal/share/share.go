// Package share routes a composed post to its destination: the LinkedIn
// content API behind the token-gated publish path, or a platform share-intent
// URL opened in the browser for everything else.
package share

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/socialspark/socialspark/internal/linkedin"
	"github.com/socialspark/socialspark/internal/platform"
	"github.com/socialspark/socialspark/internal/session"
)

// AuthorizeFunc obtains a fresh AuthSession interactively.
type AuthorizeFunc func(ctx context.Context) (session.AuthSession, error)

// PublishFunc issues one create-post request. Non-OK upstream responses are
// returned as *linkedin.UpstreamError.
type PublishFunc func(ctx context.Context, accessToken, memberURN, text string) ([]byte, error)

// OpenFunc opens a share-intent URL for the user.
type OpenFunc func(url string) error

// Dispatcher decides per platform how a post is shared. A mutex keeps at most
// one publish attempt racing on the cached session at a time.
type Dispatcher struct {
	sessions  session.Store
	authorize AuthorizeFunc
	publish   PublishFunc
	openURL   OpenFunc
	pageURL   string

	publishMu sync.Mutex
}

// NewDispatcher constructs a Dispatcher. pageURL is the canonical address
// used by share schemes that require a source URL.
func NewDispatcher(sessions session.Store, authorize AuthorizeFunc, publish PublishFunc, openURL OpenFunc, pageURL string) *Dispatcher {
	return &Dispatcher{
		sessions:  sessions,
		authorize: authorize,
		publish:   publish,
		openURL:   openURL,
		pageURL:   pageURL,
	}
}

// Share dispatches content for platform p. Intent platforms open a pre-filled
// composer; LinkedIn goes through the authenticated publish path with a
// single reauthentication retry on rejected authorization.
func (d *Dispatcher) Share(ctx context.Context, p platform.Platform, content platform.PostContent) error {
	if !platform.SupportsAPIPublish(p) {
		shareURL, ok := platform.BuildShareURL(p, content, d.pageURL)
		if !ok {
			return fmt.Errorf("share: no share target for platform %q", p)
		}
		if err := d.openURL(shareURL); err != nil {
			return fmt.Errorf("share: open %s composer failed: %w", p, err)
		}
		return nil
	}
	return d.publishWithReauth(ctx, content)
}

// publishWithReauth publishes to LinkedIn using the cached session, obtaining
// one interactively when absent. A 401 from the content API clears the cached
// session and retries the full authorize-and-publish cycle exactly once; a
// second 401 is terminal.
func (d *Dispatcher) publishWithReauth(ctx context.Context, content platform.PostContent) error {
	d.publishMu.Lock()
	defer d.publishMu.Unlock()

	triedReauth := false
	for {
		sess, ok := d.sessions.Get()
		if !ok {
			fresh, err := d.authorize(ctx)
			if err != nil {
				return fmt.Errorf("share: linkedin authorization failed: %w", err)
			}
			if err = d.sessions.Set(fresh); err != nil {
				log.Warnf("share: persist session failed: %v", err)
			}
			sess = fresh
		}

		_, err := d.publish(ctx, sess.AccessToken, sess.MemberURN, content.Text)
		if err == nil {
			return nil
		}

		var upstream *linkedin.UpstreamError
		if errors.As(err, &upstream) && upstream.StatusCode == http.StatusUnauthorized && !triedReauth {
			log.Warn("share: linkedin rejected the token, clearing session and retrying once")
			if errClear := d.sessions.Clear(); errClear != nil {
				log.Warnf("share: clear session failed: %v", errClear)
			}
			triedReauth = true
			continue
		}
		return fmt.Errorf("share: publish to linkedin failed: %w", err)
	}
}
