package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/maheshrc27/postforge/internal/apperrors"
)

func validPostsJSON() string {
	content, _ := json.Marshal(map[string]any{
		"posts": []map[string]any{
			{"title": "Hi", "content": "Hello world", "platforms": []string{"x"}, "scheduledDate": "2025-06-09T09:00:00Z"},
		},
	})
	return string(content)
}

func chatResponseBody(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	}
}

func TestGenerateStructured_Success(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_schema", req.ResponseFormat.Type)
		assert.True(t, req.ResponseFormat.JSONSchema.Strict)

		_ = json.NewEncoder(w).Encode(chatResponseBody(validPostsJSON()))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	result, err := c.GenerateStructured(context.Background(), "sk-key", "prompt")
	require.NoError(t, err)

	require.Len(t, result.Posts, 1)
	assert.Equal(t, "Hello world", result.Posts[0].Content)
	assert.Equal(t, 30, result.Usage.TotalTokens)
	assert.Equal(t, "Bearer sk-key", gotAuth.Load())
}

func TestGenerateStructured_RetriesOnRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponseBody(validPostsJSON()))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	result, err := c.GenerateStructured(context.Background(), "sk-key", "prompt")
	require.NoError(t, err)

	assert.Len(t, result.Posts, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGenerateStructured_ClientErrorIsTerminal(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	_, err := c.GenerateStructured(context.Background(), "sk-key", "prompt")

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateStructured_InvalidJSONContentNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(chatResponseBody("this is not json"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	_, err := c.GenerateStructured(context.Background(), "sk-key", "prompt")

	var validation *apperrors.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateStructured_SchemaViolationNotRetried(t *testing.T) {
	var calls int32
	content, _ := json.Marshal(map[string]any{
		"posts": []map[string]any{
			{"content": "", "platforms": []string{"x"}, "scheduledDate": "2025-06-09"},
		},
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(chatResponseBody(string(content)))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	_, err := c.GenerateStructured(context.Background(), "sk-key", "prompt")

	var validation *apperrors.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Nil(t, req.ResponseFormat)
		_ = json.NewEncoder(w).Encode(chatResponseBody("plain answer"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	text, err := c.GenerateText(context.Background(), "sk-key", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "plain answer", text)
}

func TestValidatePosts(t *testing.T) {
	good := GeneratedPost{Content: "ok", Platforms: []string{"x"}, ScheduledDate: "2025-06-09"}

	assert.Error(t, validatePosts(nil))

	noPlatform := good
	noPlatform.Platforms = nil
	assert.Error(t, validatePosts([]GeneratedPost{noPlatform}))

	badDate := good
	badDate.ScheduledDate = "sometime soon"
	assert.Error(t, validatePosts([]GeneratedPost{badDate}))

	singlePlatform := good
	singlePlatform.Platforms = nil
	singlePlatform.Platform = "x"
	assert.NoError(t, validatePosts([]GeneratedPost{good, singlePlatform}))
}

func TestParseScheduledAt_Layouts(t *testing.T) {
	for _, value := range []string{
		"2025-06-09T09:00:00Z",
		"2025-06-09T09:00:00",
		"2025-06-09T09:00",
		"2025-06-09",
	} {
		p := GeneratedPost{ScheduledDate: value}
		ts, err := p.ParseScheduledAt()
		require.NoError(t, err, value)
		assert.Equal(t, 9, ts.Day())
	}

	p := GeneratedPost{ScheduledDate: "09/06/2025"}
	_, err := p.ParseScheduledAt()
	assert.Error(t, err)
}
