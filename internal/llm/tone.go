package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/maheshrc27/postforge/internal/apperrors"
)

// ToneAnalysis is the structured result of a brand voice analysis run over
// scraped website copy or a batch of past posts.
type ToneAnalysis struct {
	Tone              string   `json:"tone"`
	Personality       string   `json:"personality"`
	WritingStyle      string   `json:"writingStyle"`
	Vocabulary        []string `json:"vocabulary"`
	SentenceStructure string   `json:"sentenceStructure"`
	EmotionalTone     string   `json:"emotionalTone"`
	BrandAttributes   []string `json:"brandAttributes"`
	ContentThemes     []string `json:"contentThemes"`
	Recommendations   []string `json:"recommendations"`
}

// AnalyzeTone runs a low-temperature structured analysis over the supplied
// source material. Retry semantics match GenerateStructured.
func (c *Client) AnalyzeTone(ctx context.Context, apiKey, prompt string) (*ToneAnalysis, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: 0.3,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &responseFormat{
			Type:       "json_schema",
			JSONSchema: jsonSchema{Name: "tone_analysis", Strict: true, Schema: toneSchema()},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.doChat(ctx, apiKey, req)
		if err != nil {
			var terminal *terminalError
			if errors.As(err, &terminal) {
				return nil, terminal.err
			}
			lastErr = err
			if !sleepBackoff(ctx, attempt) {
				break
			}
			continue
		}

		if len(resp.Choices) == 0 {
			return nil, apperrors.NewValidation("model returned no choices")
		}

		var analysis ToneAnalysis
		if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &analysis); err != nil {
			return nil, apperrors.NewValidation("model returned invalid JSON: %v", err)
		}
		if analysis.Tone == "" {
			return nil, apperrors.NewValidation("tone analysis returned no tone")
		}
		return &analysis, nil
	}

	return nil, fmt.Errorf("provider call failed after %d attempts: %w", maxAttempts, lastErr)
}

func toneSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{"tone", "personality", "writingStyle", "vocabulary",
			"sentenceStructure", "emotionalTone", "brandAttributes", "contentThemes", "recommendations"},
		"properties": map[string]any{
			"tone":              map[string]any{"type": "string"},
			"personality":       map[string]any{"type": "string"},
			"writingStyle":      map[string]any{"type": "string"},
			"vocabulary":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"sentenceStructure": map[string]any{"type": "string"},
			"emotionalTone":     map[string]any{"type": "string"},
			"brandAttributes":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"contentThemes":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"recommendations":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}
