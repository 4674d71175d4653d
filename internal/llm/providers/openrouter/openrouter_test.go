// internal/llm/providers/openrouter/openrouter_test.go
package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingualife/lingualife/internal/llm"
)

type capturedRequest struct {
	Model    string              `json:"model"`
	Messages []map[string]string `json:"messages"`
}

func TestInitializeRequiresAPIKey(t *testing.T) {
	p := &Provider{}
	assert.Error(t, p.Initialize(map[string]string{}))

	require.NoError(t, p.Initialize(map[string]string{"api_key": "k"}))
	assert.Equal(t, "google/gemma-3-27b-it:free", p.defaultModel)

	require.NoError(t, p.Initialize(map[string]string{"api_key": "k", "default_model": "meta/llama"}))
	assert.Equal(t, "meta/llama", p.defaultModel)
}

func TestConverseBuildsChatCompletion(t *testing.T) {
	var captured capturedRequest
	var headers http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{
			"model": "google/gemma-3-27b-it:free",
			"choices": []map[string]any{
				{"message": map[string]string{"content": " Hallo! Wie geht's? "}},
			},
		})
	}))
	defer srv.Close()

	provider, err := llm.GetProvider("openrouter", map[string]string{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	require.NoError(t, err)

	resp, err := provider.Converse(context.Background(), llm.ConverseRequest{
		Text:         "Wie heißt du?",
		SystemPrompt: "Speak German only.",
		History: []llm.ChatMessage{
			{Role: "system", Content: "stale system turn"},
			{Role: "user", Content: "Hallo"},
			{Role: "assistant", Content: "Hallo!"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", headers.Get("Authorization"))
	assert.NotEmpty(t, headers.Get("HTTP-Referer"))
	assert.NotEmpty(t, headers.Get("X-Title"))

	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0]["role"])
	assert.Equal(t, "Speak German only.", captured.Messages[0]["content"])
	// History system turns are dropped; the fresh prompt is authoritative.
	assert.Equal(t, "user", captured.Messages[1]["role"])
	assert.Equal(t, "assistant", captured.Messages[2]["role"])
	assert.Equal(t, "Wie heißt du?", captured.Messages[3]["content"])

	assert.Equal(t, "Hallo! Wie geht's?", resp.Text)
	assert.Equal(t, "google/gemma-3-27b-it:free", resp.ModelName)
	assert.Equal(t, "OpenRouter", resp.ProviderName)
}

func TestConverseNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	provider, err := llm.GetProvider("openrouter", map[string]string{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	require.NoError(t, err)

	_, err = provider.Converse(context.Background(), llm.ConverseRequest{Text: "hi"})
	assert.ErrorContains(t, err, "no choices")
}

func TestConverseAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider, err := llm.GetProvider("openrouter", map[string]string{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	require.NoError(t, err)

	_, err = provider.Converse(context.Background(), llm.ConverseRequest{Text: "hi"})
	assert.ErrorContains(t, err, "429")
}
