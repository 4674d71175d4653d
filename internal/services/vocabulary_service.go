// internal/services/vocabulary_service.go
package services

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lingualife/lingualife/internal/models"
	"github.com/lingualife/lingualife/internal/storage"
	"github.com/lingualife/lingualife/internal/utils"
)

const vocabularyKey = "vocabulary"

var (
	ErrVocabularyNotFound = errors.New("vocabulary item not found")
	ErrVocabularyInvalid  = errors.New("vocabulary item is invalid")
)

// Glosser supplies a live translation for saved text. Best-effort: callers
// fall back to their own translation when it fails.
type Glosser interface {
	Gloss(text, sourceLangCode string) (string, error)
}

// VocabularyService manages the saved-word list: fully materialized in
// memory, mirrored to the store on every mutation.
type VocabularyService struct {
	store   *storage.JSONStore
	glosser Glosser // may be nil
	logger  *utils.Logger

	mu    sync.RWMutex
	items []models.VocabularyItem
}

// NewVocabularyService loads the persisted list. Malformed stored data is
// logged and treated as an empty collection.
func NewVocabularyService(store *storage.JSONStore, glosser Glosser) *VocabularyService {
	s := &VocabularyService{
		store:   store,
		glosser: glosser,
		logger:  utils.GetLogger(),
	}

	var saved []models.VocabularyItem
	if err := store.Load(vocabularyKey, &saved); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to load vocabulary, starting empty", map[string]interface{}{
				"error": err.Error(),
			})
		}
	} else {
		s.items = saved
	}
	return s
}

// List returns all saved items in insertion order.
func (s *VocabularyService) List() []models.VocabularyItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.VocabularyItem, len(s.items))
	copy(out, s.items)
	return out
}

// ByLanguage filters items by language code.
func (s *VocabularyService) ByLanguage(code string) []models.VocabularyItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.VocabularyItem
	for _, item := range s.items {
		if item.Language == code {
			out = append(out, item)
		}
	}
	return out
}

// ByCategory filters items by category.
func (s *VocabularyService) ByCategory(category string) []models.VocabularyItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.VocabularyItem
	for _, item := range s.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// Add validates and appends a new item, generating its id and timestamp.
func (s *VocabularyService) Add(item models.VocabularyItem) (models.VocabularyItem, error) {
	if item.Word == "" {
		return models.VocabularyItem{}, fmt.Errorf("%w: word is required", ErrVocabularyInvalid)
	}
	if item.Category == "" {
		item.Category = models.CategoryVocabulary
	}
	if !models.ValidCategory(item.Category) {
		return models.VocabularyItem{}, fmt.Errorf("%w: unknown category %q", ErrVocabularyInvalid, item.Category)
	}

	item.ID = uuid.NewString()
	item.DateAdded = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	if err := s.persist(); err != nil {
		s.items = s.items[:len(s.items)-1]
		return models.VocabularyItem{}, err
	}
	return item, nil
}

// AddFromHighlight saves highlighted text as a vocabulary item, asking the
// glosser for a live translation and keeping the supplied one when the
// gloss fails.
func (s *VocabularyService) AddFromHighlight(text, translation, languageCode, contextText string) (models.VocabularyItem, error) {
	if s.glosser != nil {
		if gloss, err := s.glosser.Gloss(text, languageCode); err == nil && gloss != "" {
			translation = gloss
		} else if err != nil {
			s.logger.Warn("gloss lookup failed, keeping supplied translation", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return s.Add(models.VocabularyItem{
		Word:        text,
		Translation: translation,
		Language:    languageCode,
		Context:     contextText,
		Category:    models.CategoryVocabulary,
	})
}

// Update merges a partial patch into the matching item.
func (s *VocabularyService) Update(id string, patch models.VocabularyPatch) (models.VocabularyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		item := &s.items[i]
		if patch.Word != nil {
			item.Word = *patch.Word
		}
		if patch.Translation != nil {
			item.Translation = *patch.Translation
		}
		if patch.Context != nil {
			item.Context = *patch.Context
		}
		if patch.Category != nil {
			if !models.ValidCategory(*patch.Category) {
				return models.VocabularyItem{}, fmt.Errorf("%w: unknown category %q", ErrVocabularyInvalid, *patch.Category)
			}
			item.Category = *patch.Category
		}
		if patch.Difficulty != nil {
			item.Difficulty = *patch.Difficulty
		}
		if patch.Notes != nil {
			item.Notes = *patch.Notes
		}
		if err := s.persist(); err != nil {
			return models.VocabularyItem{}, err
		}
		return *item, nil
	}
	return models.VocabularyItem{}, ErrVocabularyNotFound
}

// Remove filters the item with id out of the list. Removing a missing id
// is a no-op.
func (s *VocabularyService) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, item)
	}
	s.items = filtered
	if !removed {
		return nil
	}
	return s.persist()
}

// persist mirrors the list to the store. Caller holds s.mu.
func (s *VocabularyService) persist() error {
	if err := s.store.Save(vocabularyKey, s.items); err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	return nil
}
