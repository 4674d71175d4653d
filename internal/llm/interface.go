// internal/llm/interface.go
package llm

import (
	"context"
	"errors"
)

var ErrUnknownProvider = errors.New("unknown conversation provider")

// ChatMessage is one turn of the retained conversation context.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConverseRequest is the provider-neutral request shape. SessionRef is
// opaque; providers that issue session handles may round-trip one, but the
// retained History is always authoritative.
type ConverseRequest struct {
	Text           string        `json:"text"`
	TargetLanguage string        `json:"target_language"` // display name, e.g. "Spanish"
	LanguageCode   string        `json:"language_code"`   // ISO code, e.g. "es"
	SystemPrompt   string        `json:"system_prompt,omitempty"`
	History        []ChatMessage `json:"history,omitempty"`
	SessionRef     string        `json:"session_ref,omitempty"`
}

// ConverseResponse is the provider-neutral reply.
type ConverseResponse struct {
	Text         string `json:"text"`
	SessionRef   string `json:"session_ref,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// Provider is the contract every conversational-AI backend implements.
type Provider interface {
	// Initialize applies provider configuration (API keys, endpoints).
	Initialize(config map[string]string) error

	// Name returns the provider display name.
	Name() string

	// Converse produces the next assistant utterance for the request.
	Converse(ctx context.Context, req ConverseRequest) (*ConverseResponse, error)
}

// ProviderFactory builds an uninitialized provider instance.
type ProviderFactory func() Provider

var providers = make(map[string]ProviderFactory)

// Register adds a provider factory under a name. Called from provider
// package init functions.
func Register(name string, factory ProviderFactory) {
	providers[name] = factory
}

// GetProvider creates and initializes the named provider.
func GetProvider(name string, config map[string]string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, ErrUnknownProvider
	}

	provider := factory()
	if err := provider.Initialize(config); err != nil {
		return nil, err
	}
	return provider, nil
}

// ListProviders returns all registered provider names.
func ListProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}
