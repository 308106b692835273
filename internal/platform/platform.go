// Package platform defines the closed set of social platforms SocialSpark
// targets, their generation style guidance, and their share-intent URLs.
package platform

import (
	"net/url"
	"strings"
)

// Platform identifies one of the supported social platforms.
type Platform string

const (
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	LinkedIn  Platform = "linkedin"
	Pinterest Platform = "pinterest"
	Twitter   Platform = "twitter"
)

// all lists every supported platform in presentation order.
var all = []Platform{Instagram, Facebook, LinkedIn, Pinterest, Twitter}

// displayNames maps platform tags to their capitalized display names used
// when addressing the generation model.
var displayNames = map[Platform]string{
	Instagram: "Instagram",
	Facebook:  "Facebook",
	LinkedIn:  "LinkedIn",
	Pinterest: "Pinterest",
	Twitter:   "Twitter",
}

// styleInstructions carries the fixed per-platform tone and format guidance
// interpolated into generation prompts. Unknown platforms get no guidance but
// are still processed.
var styleInstructions = map[Platform]string{
	Instagram: `Instagram captions are visually engaging, concise, and creative. Use relevant emojis and trending hashtags. Write in a fun, casual tone and encourage interaction. Mention if a photo or carousel is implied. Limit to 2-3 punchy sentences.`,
	Facebook:  `Facebook posts are conversational, community-oriented, and can be a bit longer than other platforms. Personalize the message, ask a question or encourage discussion, and use 1-2 relevant hashtags. Use a friendly and approachable tone.`,
	LinkedIn:  `LinkedIn posts should be professional, insightful, and highlight industry relevance. Focus on business value, trends, or career impact. Avoid slang and emojis, but do include 2-3 industry hashtags. Use a tone that appeals to professionals and leaders.`,
	Pinterest: `Pinterest descriptions are inspiring, actionable, and often provide tips or ideas. Use a positive, creative tone and include keywords users might search for. Tailor the text to encourage saving or trying the idea. Include up to 3 relevant hashtags.`,
	Twitter:   `Twitter (now X) posts must be concise (max 280 characters), punchy, and may use emojis or trending hashtags. Write with an attention-grabbing hook, use abbreviations if needed, and encourage retweets or replies. Use a witty or impactful style.`,
}

// All returns every supported platform.
func All() []Platform {
	out := make([]Platform, len(all))
	copy(out, all)
	return out
}

// Normalize lowercases and trims a platform tag.
func Normalize(tag string) Platform {
	return Platform(strings.ToLower(strings.TrimSpace(tag)))
}

// Known reports whether p is one of the supported platforms.
func Known(p Platform) bool {
	_, ok := displayNames[p]
	return ok
}

// DisplayName returns the capitalized platform name. Unknown tags are
// capitalized on the first letter so they can still be addressed in prompts.
func DisplayName(p Platform) string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	s := string(p)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// StyleInstructions returns the fixed style guidance for p, or "" for
// unrecognized platforms.
func StyleInstructions(p Platform) string {
	return styleInstructions[p]
}

// ShareIntent describes how a platform's pre-filled composer is reached.
// LinkedIn publishes through the API instead and has no intent URL.
type ShareIntent struct {
	// URL is the composer URL to open in a new tab.
	URL string
}

// SupportsAPIPublish reports whether p is published through the content API
// rather than a share-intent URL.
func SupportsAPIPublish(p Platform) bool {
	return p == LinkedIn
}

// BuildShareURL constructs the platform's share-intent URL for content.
// pageURL is the address of the page initiating the share, used where the
// platform scheme requires a canonical URL. Returns false for platforms
// without an intent URL.
func BuildShareURL(p Platform, content PostContent, pageURL string) (string, bool) {
	text := content.Text
	image := content.Image
	switch p {
	case Facebook:
		target := image
		if target == "" {
			target = pageURL
		}
		return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(target) +
			"&quote=" + url.QueryEscape(text), true
	case Twitter:
		u := "https://twitter.com/intent/tweet?text=" + url.QueryEscape(text)
		if image != "" {
			u += "&url=" + url.QueryEscape(image)
		}
		if len(content.Hashtags) > 0 {
			u += "&hashtags=" + url.QueryEscape(strings.Join(content.Hashtags, ","))
		}
		return u, true
	case Pinterest:
		u := "https://pinterest.com/pin/create/button/?url=" + url.QueryEscape(pageURL)
		if image != "" {
			u += "&media=" + url.QueryEscape(image)
		}
		u += "&description=" + url.QueryEscape(text)
		return u, true
	case Instagram:
		// Instagram has no web intent; open the site so the user can paste.
		return "https://www.instagram.com/", true
	default:
		return "", false
	}
}
