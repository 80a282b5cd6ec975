package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type StreamEventType string

const (
	StreamPartial  StreamEventType = "partial"
	StreamComplete StreamEventType = "complete"
	StreamError    StreamEventType = "error"
)

// StreamEvent is one element of the finite, non-restartable generation
// sequence. Partial events carry best-effort parsed posts; the terminal
// event is either Complete with the validated result or Error.
type StreamEvent struct {
	Type   StreamEventType
	Posts  []GeneratedPost
	Result *GenerationResult
	Err    error
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Usage *TokenUsage `json:"usage"`
}

// GenerateStream yields posts incrementally as the model emits them. The
// returned channel is closed after the terminal event.
func (c *Client) GenerateStream(ctx context.Context, apiKey, prompt string) (<-chan StreamEvent, error) {
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
		Stream:        true,
		StreamOptions: &streamOptions{IncludeUsage: true},
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	events := make(chan StreamEvent)
	go c.readStream(ctx, resp, events)
	return events, nil
}

// emit delivers an event unless the consumer's context is gone. A false
// return means the stream must stop; nobody is reading anymore.
func emit(ctx context.Context, events chan<- StreamEvent, event StreamEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) readStream(ctx context.Context, resp *http.Response, events chan<- StreamEvent) {
	defer close(events)
	defer resp.Body.Close()

	var content strings.Builder
	var usage TokenUsage
	emitted := 0

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			emit(ctx, events, StreamEvent{Type: StreamError, Err: err})
			return
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if chunk.Usage != nil {
			usage = *chunk.Usage
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}

		content.WriteString(chunk.Choices[0].Delta.Content)

		if posts := extractCompletePosts(content.String()); len(posts) > emitted {
			emitted = len(posts)
			if !emit(ctx, events, StreamEvent{Type: StreamPartial, Posts: posts}) {
				return
			}
		}
	}

	var parsed struct {
		Posts []GeneratedPost `json:"posts"`
	}
	if err := json.Unmarshal([]byte(content.String()), &parsed); err != nil {
		emit(ctx, events, StreamEvent{Type: StreamError, Err: fmt.Errorf("model returned invalid JSON: %w", err)})
		return
	}
	if err := validatePosts(parsed.Posts); err != nil {
		emit(ctx, events, StreamEvent{Type: StreamError, Err: err})
		return
	}

	emit(ctx, events, StreamEvent{Type: StreamComplete, Result: &GenerationResult{Posts: parsed.Posts, Usage: usage}})
}

// extractCompletePosts pulls every fully closed object out of the posts
// array of a partially received JSON document.
func extractCompletePosts(partial string) []GeneratedPost {
	idx := strings.Index(partial, `"posts"`)
	if idx < 0 {
		return nil
	}
	rest := partial[idx:]
	start := strings.Index(rest, "[")
	if start < 0 {
		return nil
	}
	rest = rest[start+1:]

	var posts []GeneratedPost
	depth := 0
	inString := false
	escaped := false
	objStart := -1

	for i, ch := range rest {
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				if depth == 0 {
					objStart = i
				}
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 && objStart >= 0 {
					var post GeneratedPost
					if err := json.Unmarshal([]byte(rest[objStart:i+1]), &post); err == nil {
						posts = append(posts, post)
					}
					objStart = -1
				}
			}
		case ']':
			if !inString && depth == 0 {
				return posts
			}
		}
	}
	return posts
}
