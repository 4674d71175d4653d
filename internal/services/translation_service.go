// internal/services/translation_service.go
package services

import (
	"fmt"
	"strings"

	googletranslatefree "github.com/bas24/googletranslatefree"
)

// TranslationService provides live English glosses for saved vocabulary.
// This is separate from the conversation translation hints, which stay on
// the static tables.
type TranslationService struct {
	targetLang string
}

// NewTranslationService creates a translator glossing into English.
func NewTranslationService() *TranslationService {
	return &TranslationService{targetLang: "en"}
}

// Gloss translates text from the given source language code into English.
func (t *TranslationService) Gloss(text, sourceLangCode string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if sourceLangCode == "" {
		sourceLangCode = "auto"
	}

	translated, err := googletranslatefree.Translate(text, sourceLangCode, t.targetLang)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return translated, nil
}
