// internal/services/conversation_service.go
package services

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/lingualife/lingualife/internal/content"
	"github.com/lingualife/lingualife/internal/llm"
	"github.com/lingualife/lingualife/internal/models"
	"github.com/lingualife/lingualife/internal/utils"
)

// maxRetainedTurns bounds the non-system history kept per session. Once
// exceeded, the history collapses to [system, last maxRetainedTurns],
// trading long-term coherence for bounded payload size.
const maxRetainedTurns = 10

// User-message classification heuristics for the fallback path.
var (
	greetingPattern      = regexp.MustCompile(`(?i)^(hi|hello|hola|bonjour|hallo|ciao|olá|こんにちは)`)
	interrogativePattern = regexp.MustCompile(`(?i)^(what|how|where|when|why|qué|cómo|dónde|cuándo|por qué|qu'est-ce|comment|où|quand|pourquoi|was|wie|wo|wann|warum)`)
	farewellPattern      = regexp.MustCompile(`(?i)^(bye|goodbye|adiós|au revoir|auf wiedersehen|tchau|さようなら)`)
)

// ConversationService produces the next assistant utterance for a user
// turn, keeping per-key history and degrading to canned responses when the
// provider is unavailable. Provider failure is never surfaced to callers as
// an error; it is reported in the reply's Degraded/Source fields and logged.
type ConversationService struct {
	provider llm.Provider // nil when no provider is configured
	sessions *SessionStore
	catalog  *content.Catalog
	logger   *utils.Logger
}

// NewConversationService wires the service. provider may be nil, in which
// case every reply comes from the fallback tables.
func NewConversationService(provider llm.Provider, sessions *SessionStore, catalog *content.Catalog) *ConversationService {
	return &ConversationService{
		provider: provider,
		sessions: sessions,
		catalog:  catalog,
		logger:   utils.GetLogger(),
	}
}

// OpenConversation returns the opening assistant message for a key. When
// the scenario has its own fallback table for the language, the opener is
// drawn from its greeting bucket; otherwise the per-language welcome line
// is used. Opening does not touch the session history.
func (s *ConversationService) OpenConversation(language, scenario string) models.Reply {
	if scenario != "" {
		if entries, ok := s.catalog.ScenarioOpenings(scenario, language); ok {
			e := entries[rand.Intn(len(entries))]
			return models.Reply{
				Message:         e.Text,
				TranslationHint: e.Translation,
				Source:          models.ReplySourceWelcome,
			}
		}
	}

	code := s.languageCode(language)
	return models.Reply{
		Message:         s.catalog.WelcomeMessage(code),
		TranslationHint: s.catalog.WelcomeGloss(),
		Source:          models.ReplySourceWelcome,
	}
}

// GenerateResponse runs one conversation turn. userMessage must be
// non-empty (callers trim); language is a display name, with unmapped names
// handled by the default fallback behavior.
func (s *ConversationService) GenerateResponse(ctx context.Context, userMessage, language, scenario string) models.Reply {
	key := SessionKey(language, scenario)
	sess := s.sessions.get(key)

	// Serializes turns per key: a second send cannot interleave its
	// appends with an in-flight one.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.turns) == 0 {
		sess.turns = append(sess.turns, llm.ChatMessage{
			Role:    models.RoleSystem,
			Content: s.catalog.SystemPrompt(language, scenario),
		})
	}

	history := make([]llm.ChatMessage, len(sess.turns)-1)
	copy(history, sess.turns[1:])

	sess.turns = append(sess.turns, llm.ChatMessage{Role: models.RoleUser, Content: userMessage})

	if s.provider != nil {
		resp, err := s.provider.Converse(ctx, llm.ConverseRequest{
			Text:           userMessage,
			TargetLanguage: language,
			LanguageCode:   s.languageCode(language),
			SystemPrompt:   sess.turns[0].Content,
			History:        history,
			SessionRef:     sess.sessionRef,
		})
		if err == nil && resp.Text != "" {
			sess.turns = append(sess.turns, llm.ChatMessage{Role: models.RoleAssistant, Content: resp.Text})
			if resp.SessionRef != "" {
				sess.sessionRef = resp.SessionRef
			}
			s.truncate(sess)
			return models.Reply{
				Message:         resp.Text,
				TranslationHint: s.translationHint(resp.Text, language),
				Source:          models.ReplySourceProvider,
			}
		}
		s.logger.Warn("conversation provider failed, using fallback", map[string]interface{}{
			"session": key,
			"error":   fmt.Sprintf("%v", err),
		})
	}

	entry := s.pickFallback(userMessage, language, scenario)
	sess.turns = append(sess.turns, llm.ChatMessage{Role: models.RoleAssistant, Content: entry.Text})
	s.truncate(sess)

	return models.Reply{
		Message:         entry.Text,
		TranslationHint: entry.Translation,
		Degraded:        true,
		Source:          models.ReplySourceFallback,
	}
}

// Catalog exposes the content catalog backing this service.
func (s *ConversationService) Catalog() *content.Catalog {
	return s.catalog
}

// ProviderName reports the active provider name, or "" when the service
// is running on fallbacks only.
func (s *ConversationService) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// ActiveSessions reports how many conversation sessions are held in memory.
func (s *ConversationService) ActiveSessions() int {
	return s.sessions.Len()
}

// ClearConversation drops the history for a key. Idempotent.
func (s *ConversationService) ClearConversation(language, scenario string) {
	s.sessions.Clear(SessionKey(language, scenario))
}

// History returns a copy of the retained turns for a key, system turn
// included. Empty when no session exists.
func (s *ConversationService) History(language, scenario string) []llm.ChatMessage {
	sess := s.sessions.get(SessionKey(language, scenario))
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make([]llm.ChatMessage, len(sess.turns))
	copy(out, sess.turns)
	return out
}

// truncate collapses the history to [system, last maxRetainedTurns] once
// the retained turn count exceeds the ceiling. Caller holds sess.mu.
func (s *ConversationService) truncate(sess *session) {
	if len(sess.turns) <= maxRetainedTurns+1 {
		return
	}
	collapsed := make([]llm.ChatMessage, 0, maxRetainedTurns+1)
	collapsed = append(collapsed, sess.turns[0])
	collapsed = append(collapsed, sess.turns[len(sess.turns)-maxRetainedTurns:]...)
	sess.turns = collapsed
}

func (s *ConversationService) languageCode(language string) string {
	if l, ok := s.catalog.LanguageByName(language); ok {
		return l.Code
	}
	return "en"
}

// translationHint derives a best-effort English gloss for a reply from the
// static hint tables; it is not a real translation.
func (s *ConversationService) translationHint(text, language string) string {
	if hint, ok := s.catalog.Hint(text, language); ok {
		return hint
	}
	return fmt.Sprintf("AI response in %s", language)
}

// pickFallback classifies the user's message into a context bucket and
// picks a canned sentence for it, pseudo-randomly within the bucket.
func (s *ConversationService) pickFallback(userMessage, language, scenario string) content.FallbackEntry {
	bucket := ClassifyMessage(userMessage)
	entries := s.catalog.Fallbacks(language, scenario, bucket)
	return entries[rand.Intn(len(entries))]
}

// ClassifyMessage maps a user message to a fallback bucket using prefix
// and punctuation heuristics. Greeting wins over question so "Hola, ¿qué
// tal?" opens the greeting bucket.
func ClassifyMessage(text string) string {
	trimmed := strings.TrimSpace(text)
	switch {
	case greetingPattern.MatchString(trimmed):
		return content.BucketGreeting
	case strings.Contains(trimmed, "?") || interrogativePattern.MatchString(trimmed):
		return content.BucketQuestion
	case farewellPattern.MatchString(trimmed):
		return content.BucketGoodbye
	default:
		return content.BucketGeneral
	}
}
