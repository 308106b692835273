// Package generate fans a single prompt out to the generation model once per
// target platform and joins the results. A platform's failure never affects
// its siblings; it is recorded inline in that platform's slot.
package generate

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/socialspark/socialspark/internal/gemini"
	"github.com/socialspark/socialspark/internal/logging"
	"github.com/socialspark/socialspark/internal/platform"
)

// textErrorFallback is what a platform's slot carries when its generation
// call fails.
const textErrorFallback = "Error generating content for this platform."

// imageErrorFallback is the per-platform error message for failed image calls.
const imageErrorFallback = "Image generation failed."

// TextGenerator produces one text completion per prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces one image per prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*gemini.Image, error)
}

// ImageResult is one platform's image generation outcome. Exactly one of
// Image or Error is set.
type ImageResult struct {
	// Image is the base64-encoded payload.
	Image string `json:"image,omitempty"`
	// Mime is the payload media type.
	Mime string `json:"mime,omitempty"`
	// Error carries the per-platform failure message.
	Error string `json:"error,omitempty"`
}

// Service orchestrates per-platform generation calls.
type Service struct {
	text  TextGenerator
	image ImageGenerator
}

// NewService constructs a Service over the given generators.
func NewService(text TextGenerator, image ImageGenerator) *Service {
	return &Service{text: text, image: image}
}

// Posts generates platform-tailored post text for every platform in
// platforms, all calls in flight at once. Failed platforms carry the fixed
// fallback string; the returned map is keyed by exactly the requested tags.
func (s *Service) Posts(ctx context.Context, prompt string, platforms []platform.Platform) map[platform.Platform]string {
	results := make(map[platform.Platform]string, len(platforms))
	var mu sync.Mutex
	logger := requestLogger(ctx)

	var group errgroup.Group
	for _, p := range platforms {
		p := p
		group.Go(func() error {
			text, err := s.text.GenerateText(ctx, BuildPostPrompt(p, prompt))
			if err != nil {
				logger.Warnf("post generation for %s failed: %v", p, err)
				text = textErrorFallback
			}
			mu.Lock()
			results[p] = text
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return results
}

// Images generates one image per platform in parallel. Failed platforms carry
// an ImageResult with only Error set.
func (s *Service) Images(ctx context.Context, prompt string, platforms []platform.Platform) map[platform.Platform]ImageResult {
	results := make(map[platform.Platform]ImageResult, len(platforms))
	var mu sync.Mutex
	logger := requestLogger(ctx)

	var group errgroup.Group
	for _, p := range platforms {
		p := p
		group.Go(func() error {
			var result ImageResult
			img, err := s.image.GenerateImage(ctx, prompt)
			if err != nil {
				logger.Warnf("image generation for %s failed: %v", p, err)
				result = ImageResult{Error: imageErrorFallback}
			} else {
				result = ImageResult{Image: img.Data, Mime: img.Mime}
			}
			mu.Lock()
			results[p] = result
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return results
}

// requestLogger tags log entries with the request ID the HTTP middleware
// attached to ctx, so upstream failures correlate with the access log line.
func requestLogger(ctx context.Context) *log.Entry {
	return log.WithField("request_id", logging.GetRequestID(ctx))
}

// BuildPostPrompt wraps the user's idea in the platform-tailored generation
// instructions: style guidance, plain-text output, no markdown formatting.
func BuildPostPrompt(p platform.Platform, prompt string) string {
	style := platform.StyleInstructions(p)
	name := platform.DisplayName(p)

	return fmt.Sprintf(`You are an expert social media content creator.
Your task: Write a highly engaging, original post for %s, based on the following idea: %q

Guidelines:
- Follow these platform style instructions: %s
- The post must be specifically tailored for %s and its audience.
- DO NOT use asterisks (**) or markdown formatting in the content.
- Use only plain text, as it would actually appear when posted on %s.
- If emojis and hashtags are appropriate for the platform, include them naturally.
- Do not add any explanation, title, or commentary, output only the post content, ready to copy-paste.
`, name, prompt, style, name, name)
}
