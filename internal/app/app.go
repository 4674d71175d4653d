// internal/app/app.go
package app

import (
	"fmt"

	"github.com/lingualife/lingualife/internal/config"
	"github.com/lingualife/lingualife/internal/content"
	"github.com/lingualife/lingualife/internal/di"
	"github.com/lingualife/lingualife/internal/llm"
	"github.com/lingualife/lingualife/internal/services"
	"github.com/lingualife/lingualife/internal/storage"
	"github.com/lingualife/lingualife/internal/utils"

	// Provider registration.
	_ "github.com/lingualife/lingualife/internal/llm/providers/elevenlabs"
	_ "github.com/lingualife/lingualife/internal/llm/providers/openrouter"
)

// InitServices builds every application service in dependency order and
// registers it in the DI container. A provider that fails to initialize
// is logged and skipped; conversation turns then come from the fallback
// tables.
func InitServices(cfg *config.Config) error {
	logger := utils.GetLogger()
	container := di.GetContainer()

	catalog, err := content.Load()
	if err != nil {
		return fmt.Errorf("load content catalog: %w", err)
	}
	container.Register("catalog", catalog)

	store, err := storage.NewJSONStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open data store: %w", err)
	}
	container.Register("storage", store)

	provider := initProvider(cfg, logger)

	sessions := services.NewSessionStore()
	conversationService := services.NewConversationService(provider, sessions, catalog)
	container.Register("conversation", conversationService)

	scenarioService := services.NewScenarioService(store, catalog)
	container.Register("scenario", scenarioService)

	translationService := services.NewTranslationService()
	container.Register("translation", translationService)

	vocabularyService := services.NewVocabularyService(store, translationService)
	container.Register("vocabulary", vocabularyService)

	logger.Info("Services initialized", map[string]interface{}{
		"count":    len(container.GetNames()),
		"provider": conversationService.ProviderName(),
	})
	return nil
}

func initProvider(cfg *config.Config, logger *utils.Logger) llm.Provider {
	if cfg.Provider == "" {
		return nil
	}

	provider, err := llm.GetProvider(cfg.Provider, cfg.ProviderConfig)
	if err != nil {
		logger.Warn("Conversation provider unavailable, running on fallbacks", map[string]interface{}{
			"provider": cfg.Provider,
			"error":    err.Error(),
		})
		return nil
	}

	return provider
}
