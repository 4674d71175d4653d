// internal/api/handlers_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingualife/lingualife/internal/content"
	"github.com/lingualife/lingualife/internal/models"
	"github.com/lingualife/lingualife/internal/services"
	"github.com/lingualife/lingualife/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := content.Load()
	require.NoError(t, err)

	store, err := storage.NewJSONStore(t.TempDir())
	require.NoError(t, err)

	conversations := services.NewConversationService(nil, services.NewSessionStore(), catalog)
	scenarios := services.NewScenarioService(store, catalog)
	vocabulary := services.NewVocabularyService(store, nil)

	handler := NewHandler(conversations, scenarios, vocabulary)

	r := gin.New()
	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())
	r.GET("/health", handler.HealthCheck)
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/languages", handler.GetLanguages)
		apiGroup.GET("/languages/:code/locale", handler.GetSpeechLocale)
		apiGroup.GET("/scenarios", handler.GetScenarios)
		apiGroup.POST("/scenarios", handler.CreateScenario)
		apiGroup.GET("/scenarios/:id", handler.GetScenario)
		apiGroup.PUT("/scenarios/:id", handler.UpdateScenario)
		apiGroup.DELETE("/scenarios/:id", handler.DeleteScenario)
		apiGroup.GET("/vocabulary", handler.GetVocabulary)
		apiGroup.POST("/vocabulary", handler.AddVocabulary)
		apiGroup.POST("/vocabulary/highlight", handler.AddVocabularyFromHighlight)
		apiGroup.PUT("/vocabulary/:id", handler.UpdateVocabulary)
		apiGroup.DELETE("/vocabulary/:id", handler.DeleteVocabulary)
		apiGroup.POST("/conversation/open", handler.OpenConversation)
		apiGroup.POST("/conversation/message", handler.SendMessage)
		apiGroup.POST("/conversation/clear", handler.ClearConversation)
	}
	r.GET("/ws/conversation", handler.ConversationSocket)
	return r, handler
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w, resp
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)

	data := resp.Data.(map[string]any)
	// No provider configured, so the service reports degraded mode.
	assert.Equal(t, "degraded", data["status"])
}

func TestGetLanguages(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/languages", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	languages := resp.Data.([]any)
	assert.NotEmpty(t, languages)
	first := languages[0].(map[string]any)
	assert.NotEmpty(t, first["code"])
	assert.NotEmpty(t, first["locale"])
}

func TestGetSpeechLocale(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/languages/es/locale", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	payload := resp.Data.(map[string]any)
	assert.Equal(t, "es", payload["code"])
	assert.Equal(t, "es-ES", payload["locale"])

	w, resp = doJSON(t, r, http.MethodGet, "/api/languages/xx/locale", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "LANGUAGE_UNKNOWN", resp.Error.Code)
}

func TestScenarioLifecycleOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/scenarios", models.Scenario{
		Title:      "Airport",
		Difficulty: models.DifficultyBeginner,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, resp.Success)
	created := resp.Data.(map[string]any)
	id := created["id"].(string)
	require.NotEmpty(t, id)

	w, resp = doJSON(t, r, http.MethodGet, "/api/scenarios/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, http.MethodPut, "/api/scenarios/"+id, map[string]any{"title": "Airport Departures"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Airport Departures", resp.Data.(map[string]any)["title"])

	w, resp = doJSON(t, r, http.MethodDelete, "/api/scenarios/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/api/scenarios/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrorScenarioNotFound, resp.Error.Code)
}

func TestUpdateBuiltinScenarioForbidden(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPut, "/api/scenarios/1", map[string]any{"title": "Hacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrorScenarioReadOnly, resp.Error.Code)
}

func TestCreateScenarioValidationOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	// Missing title fails domain validation.
	w, resp := doJSON(t, r, http.MethodPost, "/api/scenarios", map[string]any{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrorScenarioInvalid, resp.Error.Code)
}

func TestVocabularyOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/vocabulary", models.VocabularyItem{
		Word:        "la cuenta",
		Translation: "the bill",
		Language:    "es",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, resp.Success)

	w, resp = doJSON(t, r, http.MethodPost, "/api/vocabulary/highlight", map[string]any{
		"text":        "l'addition",
		"translation": "the bill",
		"language":    "fr",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/api/vocabulary?language=es", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data.([]any), 1)

	w, resp = doJSON(t, r, http.MethodGet, "/api/vocabulary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data.([]any), 2)
}

func TestConversationOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/conversation/open", map[string]any{
		"language": "Spanish",
		"scenario": "Restaurant Order",
	})
	require.Equal(t, http.StatusOK, w.Code)
	opened := resp.Data.(map[string]any)
	assert.Equal(t, models.ReplySourceWelcome, opened["source"])
	assert.NotEmpty(t, opened["message"])

	// No provider configured: the reply is served degraded from fallbacks.
	w, resp = doJSON(t, r, http.MethodPost, "/api/conversation/message", map[string]any{
		"language": "Spanish",
		"text":     "Hola, una mesa para dos",
	})
	require.Equal(t, http.StatusOK, w.Code)
	reply := resp.Data.(map[string]any)
	assert.Equal(t, true, reply["degraded"])
	assert.Equal(t, models.ReplySourceFallback, reply["source"])
	assert.NotEmpty(t, reply["message"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/conversation/clear", map[string]any{
		"language": "Spanish",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSendMessageRequiresText(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/conversation/message", map[string]any{
		"language": "Spanish",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrorMessageEmpty, resp.Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/languages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
