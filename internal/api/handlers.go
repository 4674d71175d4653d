// internal/api/handlers.go
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lingualife/lingualife/internal/errors"
	"github.com/lingualife/lingualife/internal/models"
	"github.com/lingualife/lingualife/internal/services"
	"github.com/lingualife/lingualife/internal/utils"
)

// Handler wires the HTTP surface to the application services.
type Handler struct {
	conversations *services.ConversationService
	scenarios     *services.ScenarioService
	vocabulary    *services.VocabularyService

	response *ResponseHelper
	logger   *utils.Logger
	wsHub    *WebSocketHub
}

// NewHandler creates the API handler over the given services.
func NewHandler(
	conversations *services.ConversationService,
	scenarios *services.ScenarioService,
	vocabulary *services.VocabularyService,
) *Handler {
	return &Handler{
		conversations: conversations,
		scenarios:     scenarios,
		vocabulary:    vocabulary,
		response:      NewResponseHelper(),
		logger:        utils.GetLogger(),
		wsHub:         NewWebSocketHub(),
	}
}

// ---- Health ----

// HealthCheck reports service status for monitoring.
func (h *Handler) HealthCheck(c *gin.Context) {
	provider := h.conversations.ProviderName()
	status := "ok"
	if provider == "" {
		// Still serving: turns fall back to the canned response tables.
		status = "degraded"
	}

	h.response.Success(c, gin.H{
		"status":          status,
		"provider":        provider,
		"active_sessions": h.conversations.ActiveSessions(),
		"time":            time.Now().UTC(),
	})
}

// ---- Languages ----

// GetLanguages lists the supported practice languages with their
// speech locales.
func (h *Handler) GetLanguages(c *gin.Context) {
	h.response.Success(c, h.conversations.Catalog().Languages())
}

// GetSpeechLocale maps a language code to the BCP-47 tag used for
// speech recognition and synthesis.
func (h *Handler) GetSpeechLocale(c *gin.Context) {
	code := c.Param("code")
	if _, ok := h.conversations.Catalog().LanguageByCode(code); !ok {
		h.response.NotFound(c, ErrorLanguageUnknown, "unknown language code: "+code)
		return
	}
	h.response.Success(c, gin.H{
		"code":   code,
		"locale": h.conversations.Catalog().SpeechLocale(code),
	})
}

// ---- Scenarios ----

// GetScenarios lists built-in and custom scenarios.
func (h *Handler) GetScenarios(c *gin.Context) {
	h.response.Success(c, h.scenarios.ListScenarios())
}

// GetScenario fetches one scenario by id.
func (h *Handler) GetScenario(c *gin.Context) {
	sc, err := h.scenarios.GetScenario(c.Param("id"))
	if err != nil {
		h.response.FromError(c, scenarioAPIError(err))
		return
	}
	h.response.Success(c, sc)
}

// CreateScenario stores a new custom scenario.
func (h *Handler) CreateScenario(c *gin.Context) {
	var sc models.Scenario
	if err := c.ShouldBindJSON(&sc); err != nil {
		h.response.BadRequest(c, "invalid scenario payload", err.Error())
		return
	}

	created, err := h.scenarios.CreateScenario(sc)
	if err != nil {
		h.response.FromError(c, scenarioAPIError(err))
		return
	}

	h.logger.Info("Custom scenario created", map[string]interface{}{
		"id":    created.ID,
		"title": created.Title,
	})
	h.response.Created(c, created)
}

// UpdateScenario applies a partial update to a custom scenario.
func (h *Handler) UpdateScenario(c *gin.Context) {
	var patch models.ScenarioPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.response.BadRequest(c, "invalid scenario patch", err.Error())
		return
	}

	updated, err := h.scenarios.UpdateScenario(c.Param("id"), patch)
	if err != nil {
		h.response.FromError(c, scenarioAPIError(err))
		return
	}
	h.response.Success(c, updated)
}

// DeleteScenario removes a custom scenario. Deleting an id that does not
// exist is treated as already done.
func (h *Handler) DeleteScenario(c *gin.Context) {
	if err := h.scenarios.DeleteScenario(c.Param("id")); err != nil {
		h.response.FromError(c, scenarioAPIError(err))
		return
	}
	h.response.Success(c, nil, "scenario deleted")
}

// ---- Vocabulary ----

// GetVocabulary lists saved items, optionally filtered by language code
// or category.
func (h *Handler) GetVocabulary(c *gin.Context) {
	if code := c.Query("language"); code != "" {
		h.response.Success(c, h.vocabulary.ByLanguage(code))
		return
	}
	if category := c.Query("category"); category != "" {
		h.response.Success(c, h.vocabulary.ByCategory(category))
		return
	}
	h.response.Success(c, h.vocabulary.List())
}

// AddVocabulary stores a new vocabulary item.
func (h *Handler) AddVocabulary(c *gin.Context) {
	var item models.VocabularyItem
	if err := c.ShouldBindJSON(&item); err != nil {
		h.response.BadRequest(c, "invalid vocabulary payload", err.Error())
		return
	}

	created, err := h.vocabulary.Add(item)
	if err != nil {
		h.response.FromError(c, vocabularyAPIError(err))
		return
	}
	h.response.Created(c, created)
}

type highlightRequest struct {
	Text        string `json:"text" binding:"required"`
	Translation string `json:"translation"`
	Language    string `json:"language"`
	Context     string `json:"context"`
}

// AddVocabularyFromHighlight saves text the learner highlighted in a
// conversation, filling in a translation gloss when none was supplied.
func (h *Handler) AddVocabularyFromHighlight(c *gin.Context) {
	var req highlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid highlight payload", err.Error())
		return
	}

	created, err := h.vocabulary.AddFromHighlight(req.Text, req.Translation, req.Language, req.Context)
	if err != nil {
		h.response.FromError(c, vocabularyAPIError(err))
		return
	}
	h.response.Created(c, created)
}

// UpdateVocabulary applies a partial update to a vocabulary item.
func (h *Handler) UpdateVocabulary(c *gin.Context) {
	var patch models.VocabularyPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.response.BadRequest(c, "invalid vocabulary patch", err.Error())
		return
	}

	updated, err := h.vocabulary.Update(c.Param("id"), patch)
	if err != nil {
		h.response.FromError(c, vocabularyAPIError(err))
		return
	}
	h.response.Success(c, updated)
}

// DeleteVocabulary removes a vocabulary item; a missing id is treated as
// already deleted.
func (h *Handler) DeleteVocabulary(c *gin.Context) {
	if err := h.vocabulary.Remove(c.Param("id")); err != nil {
		h.response.FromError(c, vocabularyAPIError(err))
		return
	}
	h.response.Success(c, nil, "vocabulary item deleted")
}

// ---- Conversation ----

type conversationRequest struct {
	Language string `json:"language" binding:"required"`
	Scenario string `json:"scenario"`
}

type messageRequest struct {
	Language string `json:"language" binding:"required"`
	Scenario string `json:"scenario"`
	Text     string `json:"text" binding:"required"`
}

// OpenConversation returns the opening assistant message for a language
// and optional scenario.
func (h *Handler) OpenConversation(c *gin.Context) {
	var req conversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "language is required", err.Error())
		return
	}

	reply := h.conversations.OpenConversation(req.Language, req.Scenario)
	h.response.Success(c, reply)
}

// SendMessage runs one conversation turn and returns the reply, which is
// tagged degraded when it came from the fallback tables.
func (h *Handler) SendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.Error(c, http.StatusBadRequest, ErrorMessageEmpty, "language and text are required", err.Error())
		return
	}

	reply := h.conversations.GenerateResponse(c.Request.Context(), req.Text, req.Language, req.Scenario)
	h.response.Success(c, reply)
}

// ClearConversation discards the session history for a language and
// optional scenario. Clearing a session that was never opened succeeds.
func (h *Handler) ClearConversation(c *gin.Context) {
	var req conversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "language is required", err.Error())
		return
	}

	h.conversations.ClearConversation(req.Language, req.Scenario)
	h.response.Success(c, nil, "conversation cleared")
}

// ---- Error mapping ----

func scenarioAPIError(err error) error {
	switch {
	case errors.Is(err, services.ErrScenarioNotFound):
		e := apperrors.NewNotFoundError("scenario not found", err)
		e.Code = ErrorScenarioNotFound
		return e
	case errors.Is(err, services.ErrScenarioReadOnly):
		e := apperrors.NewForbiddenError("built-in scenarios cannot be modified", err)
		e.Code = ErrorScenarioReadOnly
		return e
	case errors.Is(err, services.ErrScenarioInvalid):
		e := apperrors.NewValidationError(err.Error(), err)
		e.Code = ErrorScenarioInvalid
		return e
	default:
		return apperrors.NewProcessingError("scenario operation failed", err)
	}
}

func vocabularyAPIError(err error) error {
	switch {
	case errors.Is(err, services.ErrVocabularyNotFound):
		e := apperrors.NewNotFoundError("vocabulary item not found", err)
		e.Code = ErrorVocabularyNotFound
		return e
	case errors.Is(err, services.ErrVocabularyInvalid):
		e := apperrors.NewValidationError(err.Error(), err)
		e.Code = ErrorVocabularyInvalid
		return e
	default:
		return apperrors.NewProcessingError("vocabulary operation failed", err)
	}
}
