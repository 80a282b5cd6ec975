package llm

import (
	"time"

	"github.com/maheshrc27/postforge/internal/apperrors"
)

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GeneratedPost is one post as returned by the model. The model may fill
// either the single platform field or the platforms list.
type GeneratedPost struct {
	Title         string   `json:"title,omitempty"`
	Content       string   `json:"content"`
	Platform      string   `json:"platform,omitempty"`
	Platforms     []string `json:"platforms,omitempty"`
	ScheduledDate string   `json:"scheduledDate"`
	MediaURLs     []string `json:"mediaUrls,omitempty"`
	Hashtags      []string `json:"hashtags,omitempty"`
}

type GenerationResult struct {
	Posts []GeneratedPost
	Usage TokenUsage
}

func (p *GeneratedPost) ResolvedPlatforms() []string {
	if len(p.Platforms) > 0 {
		return p.Platforms
	}
	if p.Platform != "" {
		return []string{p.Platform}
	}
	return nil
}

var scheduledDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (p *GeneratedPost) ParseScheduledAt() (time.Time, error) {
	var lastErr error
	for _, layout := range scheduledDateLayouts {
		t, err := time.Parse(layout, p.ScheduledDate)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// validatePosts enforces the output contract. A failure here is a content
// problem, not a transport problem, and is never retried.
func validatePosts(posts []GeneratedPost) error {
	if len(posts) == 0 {
		return apperrors.NewValidation("model returned no posts")
	}
	for i, post := range posts {
		if post.Content == "" {
			return apperrors.NewValidation("post %d has empty content", i)
		}
		if len(post.ResolvedPlatforms()) == 0 {
			return apperrors.NewValidation("post %d has no platform", i)
		}
		if _, err := post.ParseScheduledAt(); err != nil {
			return apperrors.NewValidation("post %d has unparseable scheduledDate %q", i, post.ScheduledDate)
		}
	}
	return nil
}

// postSetSchema is the strict structured-output schema sent with every
// generation request.
func postSetSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"posts"},
		"properties": map[string]any{
			"posts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"content", "platforms", "scheduledDate"},
					"properties": map[string]any{
						"title":         map[string]any{"type": "string"},
						"content":       map[string]any{"type": "string"},
						"platforms":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"scheduledDate": map[string]any{"type": "string"},
						"mediaUrls":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"hashtags":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
				},
			},
		},
	}
}
