package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/socialspark/socialspark/internal/auth/popup"
	"github.com/socialspark/socialspark/internal/linkedin"
	"github.com/socialspark/socialspark/internal/session"
)

// Login handles GET /auth/login: register a fresh state token and redirect
// the browser to the provider's authorization page.
func (h *Handler) Login(c *gin.Context) {
	state := h.states.Register()
	c.Redirect(http.StatusFound, h.auth.AuthorizationURL(state))
}

// Callback handles GET /auth/callback. Whatever the outcome, the response is
// an HTML page whose script relays the result to the opener window; the
// Go-side pending authorization for the state, if any, is completed with the
// same result.
func (h *Handler) Callback(c *gin.Context) {
	stateParam := strings.TrimSpace(c.Query("state"))

	fail := func(status int, message string) {
		h.completeAuthorization(stateParam, popup.Result{Err: message})
		h.renderCallbackPage(c, status, callbackPayload{Type: authErrorType, Error: message})
	}

	if errParam := strings.TrimSpace(c.Query("error")); errParam != "" {
		detail := strings.TrimSpace(c.Query("error_description"))
		if detail == "" {
			detail = errParam
		}
		log.Warnf("linkedin oauth error: %s (%s)", errParam, detail)
		fail(http.StatusBadRequest, "LinkedIn error: "+detail)
		return
	}

	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		fail(http.StatusBadRequest, "No code found in LinkedIn callback")
		return
	}

	if !h.states.Consume(stateParam) {
		fail(http.StatusBadRequest, "Invalid or expired state")
		return
	}

	ctx := c.Request.Context()
	accessToken, err := h.auth.ExchangeCode(ctx, code)
	if err != nil {
		log.Warnf("linkedin code exchange failed: %v", err)
		fail(http.StatusInternalServerError, err.Error())
		return
	}

	memberURN, err := h.auth.FetchMemberURN(ctx, accessToken)
	if err != nil {
		log.Warnf("linkedin userinfo failed: %v", err)
		fail(http.StatusInternalServerError, "Failed to get LinkedIn user info")
		return
	}

	h.completeAuthorization(stateParam, popup.Result{
		Session: session.AuthSession{AccessToken: accessToken, MemberURN: memberURN},
	})
	h.renderCallbackPage(c, http.StatusOK, callbackPayload{
		Type:             authSuccessType,
		AccessToken:      accessToken,
		MemberIdentifier: memberURN,
	})
}

func (h *Handler) completeAuthorization(state string, result popup.Result) {
	if h.messenger == nil || state == "" {
		return
	}
	h.messenger.Complete(state, result)
}

type publishRequest struct {
	Text        string   `json:"text"`
	Image       string   `json:"image"`
	Hashtags    []string `json:"hashtags"`
	AccessToken string   `json:"accessToken"`
	MemberURN   string   `json:"memberUrn"`
}

// Publish handles POST /auth/publish: one create-post request to the content
// API. Missing credentials never reach upstream; a rejected token surfaces as
// 401 so the client can run its single reauthentication retry.
func (h *Handler) Publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if strings.TrimSpace(req.AccessToken) == "" || strings.TrimSpace(req.MemberURN) == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "LinkedIn authentication required."})
		return
	}

	body, err := h.publisher.Publish(c.Request.Context(), req.AccessToken, req.MemberURN, req.Text)
	if err != nil {
		var upstream *linkedin.UpstreamError
		if errors.As(err, &upstream) {
			status := http.StatusInternalServerError
			if upstream.StatusCode == http.StatusUnauthorized {
				status = http.StatusUnauthorized
			}
			c.JSON(status, gin.H{"error": upstream.Message, "details": upstream.Body})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var data json.RawMessage
	if len(body) > 0 && json.Valid(body) {
		data = body
	} else {
		data = json.RawMessage(`{}`)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
