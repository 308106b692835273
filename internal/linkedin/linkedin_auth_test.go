package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestAuthorizationURL(t *testing.T) {
	auth := NewAuth("client-id", "secret", "http://localhost:8317/auth/callback")

	raw := auth.AuthorizationURL("state-1")
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.HasPrefix(raw, authorizeEndpoint+"?") {
		t.Fatalf("url = %q", raw)
	}
	q := parsed.Query()
	if q.Get("response_type") != "code" {
		t.Fatalf("response_type = %q", q.Get("response_type"))
	}
	if q.Get("client_id") != "client-id" {
		t.Fatalf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("redirect_uri") != "http://localhost:8317/auth/callback" {
		t.Fatalf("redirect_uri = %q", q.Get("redirect_uri"))
	}
	if q.Get("scope") != Scope {
		t.Fatalf("scope = %q", q.Get("scope"))
	}
	if q.Get("state") != "state-1" {
		t.Fatalf("state = %q", q.Get("state"))
	}
}

func TestExchangeCode(t *testing.T) {
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","expires_in":5184000}`))
	}))
	defer server.Close()

	auth := NewAuth("client-id", "secret", "http://localhost:8317/auth/callback")
	auth.SetEndpoints(server.URL+"/authorization", server.URL, server.URL+"/userinfo")

	token, err := auth.ExchangeCode(context.Background(), "the-code")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("token = %q", token)
	}
	if gotForm.Get("grant_type") != "authorization_code" {
		t.Fatalf("grant_type = %q", gotForm.Get("grant_type"))
	}
	if gotForm.Get("code") != "the-code" {
		t.Fatalf("code = %q", gotForm.Get("code"))
	}
	// Credentials travel in the body, not basic auth.
	if gotForm.Get("client_id") != "client-id" || gotForm.Get("client_secret") != "secret" {
		t.Fatalf("credentials in form = %q %q", gotForm.Get("client_id"), gotForm.Get("client_secret"))
	}
}

func TestExchangeCodeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	auth := NewAuth("client-id", "secret", "cb")
	auth.SetEndpoints(server.URL, server.URL, server.URL)

	if _, err := auth.ExchangeCode(context.Background(), "bad"); err == nil {
		t.Fatal("expected error for rejected code")
	}
}

func TestFetchMemberURN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization = %q", got)
		}
		_, _ = w.Write([]byte(`{"sub":"AbC123","name":"Jo"}`))
	}))
	defer server.Close()

	auth := NewAuth("client-id", "secret", "cb")
	auth.SetEndpoints(server.URL, server.URL, server.URL)

	urn, err := auth.FetchMemberURN(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("FetchMemberURN: %v", err)
	}
	if urn != "urn:li:person:AbC123" {
		t.Fatalf("urn = %q", urn)
	}
}

func TestFetchMemberURNMissingSub(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Jo"}`))
	}))
	defer server.Close()

	auth := NewAuth("client-id", "secret", "cb")
	auth.SetEndpoints(server.URL, server.URL, server.URL)

	if _, err := auth.FetchMemberURN(context.Background(), "tok"); err == nil {
		t.Fatal("expected error for missing sub")
	}
}

func TestFetchMemberURNEmptyToken(t *testing.T) {
	auth := NewAuth("client-id", "secret", "cb")
	if _, err := auth.FetchMemberURN(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestUpdateCredentials(t *testing.T) {
	auth := NewAuth("old-id", "old-secret", "old-cb")
	auth.UpdateCredentials("new-id", "new-secret", "new-cb")

	raw := auth.AuthorizationURL("s")
	q, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if q.Query().Get("client_id") != "new-id" || q.Query().Get("redirect_uri") != "new-cb" {
		t.Fatalf("url after update = %q", raw)
	}
}
