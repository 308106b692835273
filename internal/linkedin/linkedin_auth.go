// Package linkedin implements the LinkedIn three-legged OAuth flow: building
// the authorization URL, exchanging the code for an access token, and
// resolving the authenticated member's URN via OpenID Connect userinfo.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	authorizeEndpoint = "https://www.linkedin.com/oauth/v2/authorization"
	tokenEndpoint     = "https://www.linkedin.com/oauth/v2/accessToken"
	userInfoEndpoint  = "https://api.linkedin.com/v2/userinfo"

	// Scope uses openid for identity resolution and w_member_social for
	// posting on the member's behalf.
	Scope = "openid profile email w_member_social"
)

// Auth drives the OAuth flow for one registered LinkedIn application.
type Auth struct {
	mu           sync.RWMutex
	clientID     string
	clientSecret string
	redirectURI  string

	authorizeURL string
	tokenURL     string
	userInfoURL  string

	httpClient *http.Client
}

// NewAuth constructs an Auth for the official LinkedIn endpoints.
func NewAuth(clientID, clientSecret, redirectURI string) *Auth {
	return &Auth{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authorizeURL: authorizeEndpoint,
		tokenURL:     tokenEndpoint,
		userInfoURL:  userInfoEndpoint,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// UpdateCredentials replaces the application credentials, e.g. after a
// config reload.
func (a *Auth) UpdateCredentials(clientID, clientSecret, redirectURI string) {
	a.mu.Lock()
	a.clientID = clientID
	a.clientSecret = clientSecret
	a.redirectURI = redirectURI
	a.mu.Unlock()
}

func (a *Auth) credentials() (clientID, clientSecret, redirectURI string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.clientID, a.clientSecret, a.redirectURI
}

// SetEndpoints overrides the provider endpoints. Used by tests.
func (a *Auth) SetEndpoints(authorize, token, userInfo string) {
	a.authorizeURL = authorize
	a.tokenURL = token
	a.userInfoURL = userInfo
}

// oauthConfig assembles the oauth2 configuration. LinkedIn expects client
// credentials in the request body, not basic auth.
func (a *Auth) oauthConfig() *oauth2.Config {
	clientID, clientSecret, redirectURI := a.credentials()
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       strings.Fields(Scope),
		Endpoint: oauth2.Endpoint{
			AuthURL:   a.authorizeURL,
			TokenURL:  a.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthorizationURL builds the provider authorization URL carrying state for
// replay protection.
func (a *Auth) AuthorizationURL(state string) string {
	clientID, _, redirectURI := a.credentials()
	values := url.Values{}
	values.Set("response_type", "code")
	values.Set("client_id", clientID)
	values.Set("redirect_uri", redirectURI)
	values.Set("scope", Scope)
	values.Set("state", state)
	return fmt.Sprintf("%s?%s", a.authorizeURL, values.Encode())
}

// ExchangeCode trades an authorization code for an access token.
func (a *Auth) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	token, err := a.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("linkedin token: exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("linkedin token: missing access token in response")
	}
	return token.AccessToken, nil
}

// FetchMemberURN resolves the authenticated member's URN from the OpenID
// Connect userinfo endpoint. The "sub" claim is the member id.
func (a *Auth) FetchMemberURN(ctx context.Context, accessToken string) (string, error) {
	if strings.TrimSpace(accessToken) == "" {
		return "", fmt.Errorf("linkedin userinfo: access token is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("linkedin userinfo: create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("linkedin userinfo: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("linkedin userinfo: read response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Debugf("linkedin userinfo failed: status=%d body=%s", resp.StatusCode, string(body))
		return "", fmt.Errorf("linkedin userinfo: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var info struct {
		Sub string `json:"sub"`
	}
	if err = json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("linkedin userinfo: decode response failed: %w", err)
	}
	if info.Sub == "" {
		return "", fmt.Errorf("linkedin userinfo: missing sub in response")
	}
	return "urn:li:person:" + info.Sub, nil
}
