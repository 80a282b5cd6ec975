package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/maheshrc27/postforge/internal/apperrors"
)

const (
	systemPrompt = "You are a careful marketing copy generator. Return only valid JSON."
	maxAttempts  = 3
)

type Client struct {
	client  *http.Client
	baseURL string
	model   string
}

func NewClient(baseURL, model string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: baseURL,
		model:   model,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Temperature    float64         `json:"temperature"`
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream,omitempty"`
	StreamOptions  *streamOptions  `json:"stream_options,omitempty"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage TokenUsage `json:"usage"`
}

// GenerateStructured requests a validated post set. Transport failures and
// 429/5xx responses are retried up to maxAttempts; schema violations are
// surfaced immediately as validation errors.
func (c *Client) GenerateStructured(ctx context.Context, apiKey, prompt string) (*GenerationResult, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: 0.7,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &responseFormat{
			Type:       "json_schema",
			JSONSchema: jsonSchema{Name: "post_set", Strict: true, Schema: postSetSchema()},
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

		var parsed struct {
			Posts []GeneratedPost `json:"posts"`
		}
		if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
			return nil, apperrors.NewValidation("model returned invalid JSON: %v", err)
		}
		if err := validatePosts(parsed.Posts); err != nil {
			return nil, err
		}

		return &GenerationResult{Posts: parsed.Posts, Usage: resp.Usage}, nil
	}

	return nil, fmt.Errorf("provider call failed after %d attempts: %w", maxAttempts, lastErr)
}

// GenerateText runs a plain completion without the structured schema, used
// by the feedback aggregation path.
func (c *Client) GenerateText(ctx context.Context, apiKey, prompt string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: 0.7,
		Messages:    []message{{Role: "user", Content: prompt}},
	}

	resp, err := c.doChat(ctx, apiKey, req)
	if err != nil {
		var terminal *terminalError
		if errors.As(err, &terminal) {
			return "", terminal.err
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) doChat(ctx context.Context, apiKey string, reqBody chatRequest) (*chatResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &terminalError{fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, &terminalError{fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
		if isRetryable(resp.StatusCode) {
			return nil, err
		}
		return nil, &terminalError{err}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &terminalError{fmt.Errorf("decode response: %w", err)}
	}
	return &parsed, nil
}

func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func sleepBackoff(ctx context.Context, attempt int) bool {
	select {
	case <-time.After(time.Duration(attempt) * time.Second):
		return true
	case <-ctx.Done():
		return false
	}
}

// terminalError marks a failure that retrying cannot fix.
type terminalError struct {
	err error
}

func (e *terminalError) Error() string {
	return e.err.Error()
}
