// internal/api/router.go
package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lingualife/lingualife/internal/config"
	"github.com/lingualife/lingualife/internal/di"
	"github.com/lingualife/lingualife/internal/services"
)

// SetupRouter configures the HTTP routes. Services must already be
// registered in the DI container by app.InitServices.
func SetupRouter() (*gin.Engine, *Handler, error) {
	cfg := config.GetCurrentConfig()

	container := di.GetContainer()

	conversationService, ok := container.Get("conversation").(*services.ConversationService)
	if !ok {
		return nil, nil, fmt.Errorf("conversation service not initialized")
	}

	scenarioService, ok := container.Get("scenario").(*services.ScenarioService)
	if !ok {
		return nil, nil, fmt.Errorf("scenario service not initialized")
	}

	vocabularyService, ok := container.Get("vocabulary").(*services.VocabularyService)
	if !ok {
		return nil, nil, fmt.Errorf("vocabulary service not initialized")
	}

	handler := NewHandler(conversationService, scenarioService, vocabularyService)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())

	r.GET("/health", handler.HealthCheck)

	apiGroup := r.Group("/api")
	apiGroup.Use(RateLimitMiddleware(120, time.Minute))
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

	return r, handler, nil
}
