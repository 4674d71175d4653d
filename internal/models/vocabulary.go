// internal/models/vocabulary.go
package models

import "time"

// Vocabulary item categories.
const (
	CategoryVocabulary = "vocabulary"
	CategoryGrammar    = "grammar"
)

// Vocabulary item difficulty ratings (optional on an item).
const (
	VocabEasy   = "easy"
	VocabMedium = "medium"
	VocabHard   = "hard"
)

// VocabularyItem is a saved word or grammar note, persisted until deleted.
type VocabularyItem struct {
	ID          string    `json:"id"`
	Word        string    `json:"word"`
	Translation string    `json:"translation"`
	Language    string    `json:"language"` // language code, e.g. "es"
	Context     string    `json:"context,omitempty"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	DateAdded   time.Time `json:"date_added"`
}

// VocabularyPatch carries a partial update for a vocabulary item.
type VocabularyPatch struct {
	Word        *string `json:"word,omitempty"`
	Translation *string `json:"translation,omitempty"`
	Context     *string `json:"context,omitempty"`
	Category    *string `json:"category,omitempty"`
	Difficulty  *string `json:"difficulty,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// ValidCategory reports whether c is a known vocabulary category.
func ValidCategory(c string) bool {
	return c == CategoryVocabulary || c == CategoryGrammar
}
