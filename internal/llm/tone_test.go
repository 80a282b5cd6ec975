package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/maheshrc27/postforge/internal/apperrors"
)

func toneContent(tone string) string {
	content, _ := json.Marshal(map[string]any{
		"tone":              tone,
		"personality":       "steady",
		"writingStyle":      "plain",
		"vocabulary":        []string{"clear"},
		"sentenceStructure": "simple",
		"emotionalTone":     "even",
		"brandAttributes":   []string{"reliable"},
		"contentThemes":     []string{"care"},
		"recommendations":   []string{"Stay concise"},
	})
	return string(content)
}

func TestAnalyzeTone_SendsSchemaAndParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)

		rf, ok := req["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_schema", rf["type"])
		schema := rf["json_schema"].(map[string]any)
		assert.Equal(t, "tone_analysis", schema["name"])
		assert.Equal(t, true, schema["strict"])
		assert.Equal(t, 0.3, req["temperature"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": toneContent("calm")}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	analysis, err := c.AnalyzeTone(context.Background(), "sk-key", "analyze this")
	require.NoError(t, err)
	assert.Equal(t, "calm", analysis.Tone)
	assert.Equal(t, []string{"Stay concise"}, analysis.Recommendations)
}

func TestAnalyzeTone_EmptyToneIsValidationErrorNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": toneContent("")}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	_, err := c.AnalyzeTone(context.Background(), "sk-key", "analyze this")

	var validation *apperrors.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, 1, calls)
}
