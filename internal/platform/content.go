package platform

import (
	"regexp"
	"strings"
)

// PostContent is the derived, render-ready form of a generated post.
type PostContent struct {
	// Text is the display text with hashtags stripped.
	Text string `json:"text"`
	// Image is a data URI or empty when no image was generated.
	Image string `json:"image,omitempty"`
	// Hashtags holds the tags extracted from the generated text, without "#".
	Hashtags []string `json:"hashtags,omitempty"`
}

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// DerivePostContent splits generated text into display text and hashtags.
// Tags are extracted via the #word pattern, deduplicated in order of first
// appearance, and removed from the display text.
func DerivePostContent(text, image string) PostContent {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		tag := m[1]
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}

	display := hashtagPattern.ReplaceAllString(text, "")
	lines := strings.Split(display, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	display = strings.TrimSpace(strings.Join(lines, "\n"))

	return PostContent{Text: display, Image: image, Hashtags: tags}
}
