package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/socialspark/socialspark/internal/platform"
)

// maxPromptLength caps the prompt, matching the composer input limit.
const maxPromptLength = 300

// platformList accepts either a JSON array of tags or a single
// comma-separated string.
type platformList []platform.Platform

// UnmarshalJSON implements json.Unmarshaler.
func (l *platformList) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		var joined string
		if errStr := json.Unmarshal(data, &joined); errStr != nil {
			return err
		}
		tags = strings.Split(joined, ",")
	}

	out := make(platformList, 0, len(tags))
	for _, tag := range tags {
		p := platform.Normalize(tag)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	*l = out
	return nil
}

type generateRequest struct {
	Prompt    string       `json:"prompt"`
	Platforms platformList `json:"platforms"`
}

// normalize trims and caps the prompt. The cap counts runes, matching the
// composer's character-based maxlength, so truncation never splits a
// multi-byte sequence. It reports false when prompt or platforms are missing.
func (r *generateRequest) normalize() bool {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if utf8.RuneCountInString(r.Prompt) > maxPromptLength {
		r.Prompt = string([]rune(r.Prompt)[:maxPromptLength])
	}
	return r.Prompt != "" && len(r.Platforms) > 0
}

// GeneratePost handles POST /generatePost. It fans the prompt out per
// platform and responds with the content keyed by exactly the requested tags.
func (h *Handler) GeneratePost(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.normalize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt and platforms are required."})
		return
	}
	if !h.keys.HasKey() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gemini API key is not set."})
		return
	}

	content := h.generator.Posts(c.Request.Context(), req.Prompt, req.Platforms)
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// GenerateImage handles POST /generateImage. Per-platform failures are
// embedded in the result; the response is 200 whenever the input validates.
func (h *Handler) GenerateImage(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.normalize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt and platforms required."})
		return
	}
	if !h.keys.HasKey() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gemini API key is not set."})
		return
	}

	images := h.generator.Images(c.Request.Context(), req.Prompt, req.Platforms)
	c.JSON(http.StatusOK, gin.H{"images": images})
}
