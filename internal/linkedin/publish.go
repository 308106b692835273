package linkedin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ugcPostsEndpoint is the LinkedIn UGC content API.
const ugcPostsEndpoint = "https://api.linkedin.com/v2/ugcPosts"

// restliVersion is required on every content API request.
const restliVersion = "2.0.0"

// UpstreamError is a non-OK response from the content API. The raw body is
// kept for diagnostics and the status code lets callers spot rejected
// authorization.
type UpstreamError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("linkedin publish: %d %s", e.StatusCode, e.Message)
}

// Publisher issues create-post requests to the content API.
type Publisher struct {
	endpoint   string
	httpClient *http.Client
}

// NewPublisher constructs a Publisher for the official endpoint.
func NewPublisher() *Publisher {
	return &Publisher{
		endpoint:   ugcPostsEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetEndpoint overrides the content API endpoint. Used by tests.
func (p *Publisher) SetEndpoint(endpoint string) {
	p.endpoint = endpoint
}

// Publish creates one public text post authored by memberURN. Image
// attachment requires LinkedIn's separate asset upload flow and is not part
// of this payload; the share stays text-only even when the caller generated
// an image.
func (p *Publisher) Publish(ctx context.Context, accessToken, memberURN, text string) ([]byte, error) {
	payload := []byte(`{}`)
	payload, _ = sjson.SetBytes(payload, "author", memberURN)
	payload, _ = sjson.SetBytes(payload, "lifecycleState", "PUBLISHED")
	payload, _ = sjson.SetBytes(payload, `specificContent.com\.linkedin\.ugc\.ShareContent.shareCommentary.text`, text)
	payload, _ = sjson.SetBytes(payload, `specificContent.com\.linkedin\.ugc\.ShareContent.shareMediaCategory`, "NONE")
	payload, _ = sjson.SetBytes(payload, `visibility.com\.linkedin\.ugc\.MemberNetworkVisibility`, "PUBLIC")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("linkedin publish: create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", restliVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin publish: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("linkedin publish: read response failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debugf("linkedin publish failed: status=%d body=%s", resp.StatusCode, string(body))
		message := gjson.GetBytes(body, "message").String()
		if message == "" {
			message = "Failed to post to LinkedIn"
		}
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
