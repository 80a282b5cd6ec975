package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseChunk(content string) string {
	data, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]string{"content": content}},
		},
	})
	return "data: " + string(data) + "\n\n"
}

func sseUsage(total int) string {
	data, _ := json.Marshal(map[string]any{
		"choices": []any{},
		"usage":   map[string]int{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": total},
	})
	return "data: " + string(data) + "\n\n"
}

func TestGenerateStream_EmitsPartialsThenComplete(t *testing.T) {
	fullDoc := `{"posts":[` +
		`{"content":"First","platforms":["x"],"scheduledDate":"2025-06-09"},` +
		`{"content":"Second","platforms":["linkedin"],"scheduledDate":"2025-06-10"}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		// feed the document in small slices so partials appear mid-object
		for i := 0; i < len(fullDoc); i += 24 {
			end := i + 24
			if end > len(fullDoc) {
				end = len(fullDoc)
			}
			fmt.Fprint(w, sseChunk(fullDoc[i:end]))
			flusher.Flush()
		}
		fmt.Fprint(w, sseUsage(42))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	events, err := c.GenerateStream(context.Background(), "sk-key", "prompt")
	require.NoError(t, err)

	var partials int
	var complete *GenerationResult
	for event := range events {
		switch event.Type {
		case StreamPartial:
			partials++
			assert.NotEmpty(t, event.Posts)
		case StreamComplete:
			complete = event.Result
		case StreamError:
			t.Fatalf("unexpected stream error: %v", event.Err)
		}
	}

	assert.GreaterOrEqual(t, partials, 1)
	require.NotNil(t, complete)
	require.Len(t, complete.Posts, 2)
	assert.Equal(t, "First", complete.Posts[0].Content)
	assert.Equal(t, 42, complete.Usage.TotalTokens)
}

func TestGenerateStream_InvalidDocumentEndsWithError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseChunk(`{"posts": [`))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	events, err := c.GenerateStream(context.Background(), "sk-key", "prompt")
	require.NoError(t, err)

	var last StreamEvent
	for event := range events {
		last = event
	}
	assert.Equal(t, StreamError, last.Type)
	assert.Error(t, last.Err)
}

func TestGenerateStream_CancelUnblocksReader(t *testing.T) {
	post := `{"content":"Early","platforms":["x"],"scheduledDate":"2025-06-09"}`
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, sseChunk(`{"posts":[`+post+`,`))
		flusher.Flush()
		fmt.Fprint(w, sseChunk(post+`,`))
		flusher.Flush()
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewClient(server.URL, "test-model")
	events, err := c.GenerateStream(ctx, "sk-key", "prompt")
	require.NoError(t, err)

	first := <-events
	assert.Equal(t, StreamPartial, first.Type)

	// stop consuming; the reader must not stay blocked on its next send
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel never closed after cancel")
		}
	}
}

func TestGenerateStream_BadStatusFailsFast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	_, err := c.GenerateStream(context.Background(), "sk-key", "prompt")
	assert.Error(t, err)
}

func TestExtractCompletePosts(t *testing.T) {
	partial := `{"posts":[{"content":"Done","platforms":["x"],"scheduledDate":"2025-06-09"},{"content":"Half`

	posts := extractCompletePosts(partial)
	require.Len(t, posts, 1)
	assert.Equal(t, "Done", posts[0].Content)
}

func TestExtractCompletePosts_BracesInsideStrings(t *testing.T) {
	partial := `{"posts":[{"content":"Use {curly} braces {a lot}","platforms":["x"],"scheduledDate":"2025-06-09"}`

	posts := extractCompletePosts(partial)
	require.Len(t, posts, 1)
	assert.Equal(t, "Use {curly} braces {a lot}", posts[0].Content)
}

func TestExtractCompletePosts_NoArrayYet(t *testing.T) {
	assert.Empty(t, extractCompletePosts(`{"po`))
	assert.Empty(t, extractCompletePosts(`{"posts":`))
}
