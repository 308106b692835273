package share

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/socialspark/socialspark/internal/linkedin"
	"github.com/socialspark/socialspark/internal/platform"
	"github.com/socialspark/socialspark/internal/session"
)

func TestShareIntentPlatformOpensComposer(t *testing.T) {
	var opened string
	d := NewDispatcher(session.NewMemoryStore(), nil, nil, func(url string) error {
		opened = url
		return nil
	}, "http://localhost:8317/")

	content := platform.PostContent{Text: "hello world", Hashtags: []string{"go"}}
	if err := d.Share(context.Background(), platform.Twitter, content); err != nil {
		t.Fatalf("Share: %v", err)
	}
	if !strings.HasPrefix(opened, "https://twitter.com/intent/tweet?") {
		t.Fatalf("opened = %q", opened)
	}
	if !strings.Contains(opened, "hashtags=go") {
		t.Fatalf("opened = %q, missing hashtags", opened)
	}
}

func TestShareUnknownPlatform(t *testing.T) {
	d := NewDispatcher(session.NewMemoryStore(), nil, nil, func(string) error { return nil }, "")
	err := d.Share(context.Background(), platform.Platform("myspace"), platform.PostContent{Text: "x"})
	if err == nil {
		t.Fatal("expected error for platform without a share target")
	}
}

func TestPublishCachedSessionNoReauth(t *testing.T) {
	sessions := session.NewMemoryStore()
	_ = sessions.Set(session.AuthSession{AccessToken: "tok", MemberURN: "urn:li:person:a"})

	authorizes := 0
	var gotToken, gotURN, gotText string
	d := NewDispatcher(sessions,
		func(context.Context) (session.AuthSession, error) {
			authorizes++
			return session.AuthSession{}, fmt.Errorf("should not be called")
		},
		func(_ context.Context, token, urn, text string) ([]byte, error) {
			gotToken, gotURN, gotText = token, urn, text
			return []byte(`{"id":"ugc-1"}`), nil
		},
		nil, "")

	err := d.Share(context.Background(), platform.LinkedIn, platform.PostContent{Text: "post body"})
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if authorizes != 0 {
		t.Fatalf("authorize called %d times with a cached session", authorizes)
	}
	if gotToken != "tok" || gotURN != "urn:li:person:a" || gotText != "post body" {
		t.Fatalf("publish got %q %q %q", gotToken, gotURN, gotText)
	}
}

func TestPublishAuthorizesWhenNoSession(t *testing.T) {
	sessions := session.NewMemoryStore()
	d := NewDispatcher(sessions,
		func(context.Context) (session.AuthSession, error) {
			return session.AuthSession{AccessToken: "fresh", MemberURN: "urn:li:person:b"}, nil
		},
		func(_ context.Context, token, _, _ string) ([]byte, error) {
			if token != "fresh" {
				return nil, fmt.Errorf("wrong token %q", token)
			}
			return []byte(`{}`), nil
		},
		nil, "")

	if err := d.Share(context.Background(), platform.LinkedIn, platform.PostContent{Text: "x"}); err != nil {
		t.Fatalf("Share: %v", err)
	}
	// The fresh session is cached for the next share.
	if cached, ok := sessions.Get(); !ok || cached.AccessToken != "fresh" {
		t.Fatalf("cached session = %+v, %v", cached, ok)
	}
}

func TestPublishReauthenticatesOnceOn401(t *testing.T) {
	sessions := session.NewMemoryStore()
	_ = sessions.Set(session.AuthSession{AccessToken: "stale", MemberURN: "urn:li:person:a"})

	authorizes := 0
	publishes := 0
	d := NewDispatcher(sessions,
		func(context.Context) (session.AuthSession, error) {
			authorizes++
			return session.AuthSession{AccessToken: "fresh", MemberURN: "urn:li:person:a"}, nil
		},
		func(_ context.Context, token, _, _ string) ([]byte, error) {
			publishes++
			if token == "stale" {
				return nil, &linkedin.UpstreamError{StatusCode: http.StatusUnauthorized, Message: "Expired access token"}
			}
			return []byte(`{}`), nil
		},
		nil, "")

	if err := d.Share(context.Background(), platform.LinkedIn, platform.PostContent{Text: "x"}); err != nil {
		t.Fatalf("Share: %v", err)
	}
	if publishes != 2 || authorizes != 1 {
		t.Fatalf("publishes=%d authorizes=%d, want 2 and 1", publishes, authorizes)
	}
	if cached, ok := sessions.Get(); !ok || cached.AccessToken != "fresh" {
		t.Fatalf("cached session = %+v, %v", cached, ok)
	}
}

func TestPublishSecond401IsTerminal(t *testing.T) {
	sessions := session.NewMemoryStore()
	_ = sessions.Set(session.AuthSession{AccessToken: "a", MemberURN: "u"})

	publishes := 0
	d := NewDispatcher(sessions,
		func(context.Context) (session.AuthSession, error) {
			return session.AuthSession{AccessToken: "b", MemberURN: "u"}, nil
		},
		func(context.Context, string, string, string) ([]byte, error) {
			publishes++
			return nil, &linkedin.UpstreamError{StatusCode: http.StatusUnauthorized, Message: "no"}
		},
		nil, "")

	err := d.Share(context.Background(), platform.LinkedIn, platform.PostContent{Text: "x"})
	if err == nil {
		t.Fatal("expected terminal error after second 401")
	}
	if publishes != 2 {
		t.Fatalf("publishes = %d, want exactly 2", publishes)
	}
}

func TestPublishNon401NotRetried(t *testing.T) {
	sessions := session.NewMemoryStore()
	_ = sessions.Set(session.AuthSession{AccessToken: "a", MemberURN: "u"})

	publishes := 0
	d := NewDispatcher(sessions,
		func(context.Context) (session.AuthSession, error) {
			t.Error("authorize must not run for non-401 failures")
			return session.AuthSession{}, nil
		},
		func(context.Context, string, string, string) ([]byte, error) {
			publishes++
			return nil, &linkedin.UpstreamError{StatusCode: http.StatusUnprocessableEntity, Message: "duplicate"}
		},
		nil, "")

	err := d.Share(context.Background(), platform.LinkedIn, platform.PostContent{Text: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if publishes != 1 {
		t.Fatalf("publishes = %d, want 1", publishes)
	}
	// The cached session is kept; only a 401 clears it.
	if _, ok := sessions.Get(); !ok {
		t.Fatal("session should not be cleared on non-401 failures")
	}
}

func TestPublishAuthorizeFailure(t *testing.T) {
	d := NewDispatcher(session.NewMemoryStore(),
		func(context.Context) (session.AuthSession, error) {
			return session.AuthSession{}, fmt.Errorf("window closed")
		},
		func(context.Context, string, string, string) ([]byte, error) {
			t.Error("publish must not run without a session")
			return nil, nil
		},
		nil, "")

	err := d.Share(context.Background(), platform.LinkedIn, platform.PostContent{Text: "x"})
	if err == nil || !strings.Contains(err.Error(), "authorization failed") {
		t.Fatalf("err = %v", err)
	}
}
