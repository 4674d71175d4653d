// internal/llm/providers/elevenlabs/elevenlabs_test.go
package elevenlabs

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

func newInitializedProvider(t *testing.T, proxyURL string) *Provider {
	t.Helper()
	factory, err := llm.GetProvider("elevenlabs", map[string]string{
		"proxy_url":    proxyURL,
		"api_key":      "test-key",
		"access_token": "test-token",
		"agent_id":     "agent-42",
	})
	require.NoError(t, err)
	return factory.(*Provider)
}

func TestInitializeValidation(t *testing.T) {
	p := &Provider{}
	assert.Error(t, p.Initialize(map[string]string{"api_key": "k"}))
	assert.Error(t, p.Initialize(map[string]string{"proxy_url": "http://proxy"}))
	assert.NoError(t, p.Initialize(map[string]string{"proxy_url": "http://proxy", "api_key": "k"}))
}

func TestConverseProxiesRequestShape(t *testing.T) {
	var captured proxyRequest
	var authHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]string{
			"text":            " ¡Hola! ¿Cómo estás? ",
			"conversation_id": "conv-7",
		})
	}))
	defer srv.Close()

	p := newInitializedProvider(t, srv.URL)

	resp, err := p.Converse(context.Background(), llm.ConverseRequest{
		Text:           "Hola",
		TargetLanguage: "Spanish",
		LanguageCode:   "es",
		SystemPrompt:   "You are a friendly conversation partner.",
		History: []llm.ChatMessage{
			{Role: "system", Content: "ignored"},
			{Role: "user", Content: "Buenos días"},
			{Role: "assistant", Content: "¡Buenos días!"},
		},
		SessionRef: "conv-6",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", authHeader)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "test-key", captured.Headers["xi-api-key"])
	assert.Equal(t, "agent-42", captured.Body.AgentID)
	assert.Equal(t, "Hola", captured.Body.Text)
	assert.Equal(t, "es", captured.Body.ConversationConfig.Language)
	assert.Contains(t, captured.Body.ConversationConfig.AgentPrompt, "friendly conversation partner")
	assert.Contains(t, captured.Body.ConversationConfig.AgentPrompt, "ONLY in Spanish")
	assert.Equal(t, "conv-6", captured.Body.ConversationID)

	// The system turn never appears in the flattened transcript.
	assert.Equal(t, "User: Buenos días\nAssistant: ¡Buenos días!", captured.Body.ConversationHistory)

	assert.Equal(t, "¡Hola! ¿Cómo estás?", resp.Text)
	assert.Equal(t, "conv-7", resp.SessionRef)
}

func TestConverseFallsBackToMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "Bonjour !"})
	}))
	defer srv.Close()

	p := newInitializedProvider(t, srv.URL)
	resp, err := p.Converse(context.Background(), llm.ConverseRequest{Text: "salut", TargetLanguage: "French"})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour !", resp.Text)
}

func TestConverseAudioOnlyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"audio_url": "http://audio"})
	}))
	defer srv.Close()

	p := newInitializedProvider(t, srv.URL)
	_, err := p.Converse(context.Background(), llm.ConverseRequest{Text: "hola", TargetLanguage: "Spanish"})
	assert.ErrorContains(t, err, "audio only")
}

func TestConverseServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "proxy exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := newInitializedProvider(t, srv.URL)
	_, err := p.Converse(context.Background(), llm.ConverseRequest{Text: "hola", TargetLanguage: "Spanish"})
	assert.ErrorContains(t, err, "502")
}
