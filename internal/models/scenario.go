// internal/models/scenario.go
package models

import "time"

// Scenario difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Scenario is a themed set of practice phrases with metadata.
// Built-in scenarios are content data; custom ones are user-created and
// persisted alongside them.
type Scenario struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
	Difficulty  string    `json:"difficulty" yaml:"difficulty"`
	Duration    int       `json:"duration" yaml:"duration"` // minutes
	Situations  int       `json:"situations" yaml:"situations"`
	ImageURL    string    `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Phrases     []Phrase  `json:"phrases" yaml:"phrases"`
	Custom      bool      `json:"custom,omitempty" yaml:"-"`
	CreatedAt   time.Time `json:"created_at,omitempty" yaml:"-"`
}

// Phrase belongs to exactly one scenario. Translations map a language code
// to the target-language rendering of the English text.
type Phrase struct {
	ID           string            `json:"id" yaml:"id"`
	English      string            `json:"english" yaml:"english"`
	Translations map[string]string `json:"translations" yaml:"translations"`
	Context      string            `json:"context" yaml:"context"`
}

// ScenarioPatch carries a partial update for a custom scenario. Nil fields
// are left untouched.
type ScenarioPatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Difficulty  *string  `json:"difficulty,omitempty"`
	Duration    *int     `json:"duration,omitempty"`
	Situations  *int     `json:"situations,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Phrases     []Phrase `json:"phrases,omitempty"`
}

// ValidDifficulty reports whether d is one of the known difficulty levels.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}
