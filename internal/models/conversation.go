// internal/models/conversation.go
package models

import "time"

// Conversation turn roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Reply sources. A reply is either produced by the live provider or
// substituted from the canned fallback tables; the two are never conflated.
const (
	ReplySourceProvider = "provider"
	ReplySourceFallback = "fallback"
	ReplySourceWelcome  = "welcome"
)

// Message is a rendered conversation turn as the UI sees it. Held in memory
// for the open conversation only; never persisted.
type Message struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	IsUser      bool      `json:"is_user"`
	Timestamp   time.Time `json:"timestamp"`
	Translation string    `json:"translation,omitempty"`
}

// Reply is the outcome of a conversation turn. Degraded is true when the
// text came from the fallback tables rather than the provider.
type Reply struct {
	Message         string `json:"message"`
	TranslationHint string `json:"translation_hint,omitempty"`
	Degraded        bool   `json:"degraded"`
	Source          string `json:"source"`
}
