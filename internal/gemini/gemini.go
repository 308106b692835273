// Package gemini is a minimal client for the Google Generative Language API.
// It covers the two calls SocialSpark makes: plain text generation and
// image generation with inline data responses.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	// glEndpoint is the base URL for the Google Generative Language API.
	glEndpoint = "https://generativelanguage.googleapis.com"

	// glAPIVersion is the API version used for requests.
	glAPIVersion = "v1beta"

	// TextModel writes the platform-tailored post copy.
	TextModel = "gemini-2.5-flash"

	// ImageModel produces inline image data alongside text.
	ImageModel = "gemini-2.0-flash-preview-image-generation"
)

// ErrNoImage is returned when a generateContent response carries no inline
// image part.
var ErrNoImage = fmt.Errorf("gemini: no image data in response")

// Client issues generateContent requests authenticated with an API key.
type Client struct {
	mu         sync.Mutex
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client for the official endpoint.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    glEndpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// SetAPIKey replaces the API key, e.g. after a config reload.
func (c *Client) SetAPIKey(apiKey string) {
	c.mu.Lock()
	c.apiKey = apiKey
	c.mu.Unlock()
}

func (c *Client) key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey
}

// HasKey reports whether an API key is currently configured.
func (c *Client) HasKey() bool {
	return strings.TrimSpace(c.key()) != ""
}

// GenerateText asks TextModel for a single text completion of prompt.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	body, err := c.generate(ctx, TextModel, prompt, nil)
	if err != nil {
		return "", err
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text").String()
	if text == "" {
		return "", fmt.Errorf("gemini: empty text in response")
	}
	return text, nil
}

// Image is one generated image as returned inline by the API.
type Image struct {
	// Data is the base64-encoded image payload.
	Data string
	// Mime is the payload's media type, image/png when unspecified.
	Mime string
}

// GenerateImage asks ImageModel for one image for prompt. The first inline
// data part of the first candidate wins; a response without one yields
// ErrNoImage.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	body, err := c.generate(ctx, ImageModel, prompt, []string{"TEXT", "IMAGE"})
	if err != nil {
		return nil, err
	}

	var img *Image
	gjson.GetBytes(body, "candidates.0.content.parts").ForEach(func(_, part gjson.Result) bool {
		data := part.Get("inlineData.data").String()
		if data == "" {
			return true
		}
		mime := part.Get("inlineData.mimeType").String()
		if mime == "" {
			mime = "image/png"
		}
		img = &Image{Data: data, Mime: mime}
		return false
	})
	if img == nil {
		return nil, ErrNoImage
	}
	return img, nil
}

// generate issues one generateContent call and returns the raw response body.
func (c *Client) generate(ctx context.Context, model, prompt string, modalities []string) ([]byte, error) {
	apiKey := c.key()
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: api key is not set")
	}

	payload := []byte(`{}`)
	payload, _ = sjson.SetBytes(payload, "contents.0.role", "user")
	payload, _ = sjson.SetBytes(payload, "contents.0.parts.0.text", prompt)
	if len(modalities) > 0 {
		payload, _ = sjson.SetBytes(payload, "generationConfig.responseModalities", modalities)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, glAPIVersion, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini: create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: read response failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Debugf("gemini %s request failed: status=%d body=%s", model, resp.StatusCode, string(body))
		return nil, fmt.Errorf("gemini: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
