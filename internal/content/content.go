// internal/content/content.go
package content

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lingualife/lingualife/internal/models"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Context buckets used by the fallback tables.
const (
	BucketGreeting = "greeting"
	BucketQuestion = "question"
	BucketGoodbye  = "goodbye"
	BucketGeneral  = "general"
)

// DefaultFallbackLanguage backs languages with no table of their own.
const DefaultFallbackLanguage = "Spanish"

// FallbackEntry pairs a canned sentence with its literal translation.
type FallbackEntry struct {
	Text        string `yaml:"text"`
	Translation string `yaml:"translation"`
}

// FallbackTable maps a context bucket to its canned sentences.
type FallbackTable map[string][]FallbackEntry

// HintEntry is one row of a translation-hint table. Entry order is the
// match order.
type HintEntry struct {
	Phrase string `yaml:"phrase"`
	Gloss  string `yaml:"gloss"`
}

// Catalog holds all embedded content data: languages, built-in scenarios,
// system prompts, fallback tables, hint tables and welcome messages.
type Catalog struct {
	languages         []models.Language
	scenarios         []models.Scenario
	basePrompt        string
	scenarioPrompts   map[string]string
	fallbacks         map[string]FallbackTable
	scenarioFallbacks map[string]map[string]FallbackTable
	hints             map[string][]HintEntry
	welcome           map[string]string
	welcomeDefault    string
}

// Load parses every embedded data file into a Catalog.
func Load() (*Catalog, error) {
	c := &Catalog{}

	var langDoc struct {
		Languages []models.Language `yaml:"languages"`
	}
	if err := loadYAML("data/languages.yaml", &langDoc); err != nil {
		return nil, err
	}
	c.languages = langDoc.Languages

	var scenarioDoc struct {
		Scenarios []models.Scenario `yaml:"scenarios"`
	}
	if err := loadYAML("data/scenarios.yaml", &scenarioDoc); err != nil {
		return nil, err
	}
	c.scenarios = scenarioDoc.Scenarios

	var promptDoc struct {
		Base      string            `yaml:"base"`
		Scenarios map[string]string `yaml:"scenarios"`
	}
	if err := loadYAML("data/prompts.yaml", &promptDoc); err != nil {
		return nil, err
	}
	c.basePrompt = promptDoc.Base
	c.scenarioPrompts = promptDoc.Scenarios

	var fallbackDoc struct {
		Languages map[string]FallbackTable            `yaml:"languages"`
		Scenarios map[string]map[string]FallbackTable `yaml:"scenarios"`
	}
	if err := loadYAML("data/fallbacks.yaml", &fallbackDoc); err != nil {
		return nil, err
	}
	c.fallbacks = fallbackDoc.Languages
	c.scenarioFallbacks = fallbackDoc.Scenarios

	var hintDoc struct {
		Hints map[string][]HintEntry `yaml:"hints"`
	}
	if err := loadYAML("data/hints.yaml", &hintDoc); err != nil {
		return nil, err
	}
	c.hints = hintDoc.Hints

	var welcomeDoc struct {
		Default string            `yaml:"default"`
		Welcome map[string]string `yaml:"welcome"`
	}
	if err := loadYAML("data/welcome.yaml", &welcomeDoc); err != nil {
		return nil, err
	}
	c.welcome = welcomeDoc.Welcome
	c.welcomeDefault = welcomeDoc.Default

	return c, c.validate()
}

func loadYAML(path string, v interface{}) error {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read content file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse content file %s: %w", path, err)
	}
	return nil
}

func (c *Catalog) validate() error {
	if len(c.languages) == 0 {
		return fmt.Errorf("content: no languages defined")
	}
	if len(c.scenarios) == 0 {
		return fmt.Errorf("content: no built-in scenarios defined")
	}
	if c.basePrompt == "" {
		return fmt.Errorf("content: base prompt is empty")
	}
	if _, ok := c.fallbacks[DefaultFallbackLanguage]; !ok {
		return fmt.Errorf("content: missing fallback table for default language %s", DefaultFallbackLanguage)
	}
	for name, table := range c.fallbacks {
		if len(table[BucketGeneral]) == 0 {
			return fmt.Errorf("content: fallback table for %s has no general bucket", name)
		}
	}
	return nil
}

// Languages returns the selectable target languages.
func (c *Catalog) Languages() []models.Language {
	out := make([]models.Language, len(c.languages))
	copy(out, c.languages)
	return out
}

// LanguageByCode resolves a language by its ISO code.
func (c *Catalog) LanguageByCode(code string) (models.Language, bool) {
	for _, l := range c.languages {
		if l.Code == code {
			return l, true
		}
	}
	return models.Language{}, false
}

// LanguageByName resolves a language by its display name.
func (c *Catalog) LanguageByName(name string) (models.Language, bool) {
	for _, l := range c.languages {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return models.Language{}, false
}

// SpeechLocale returns the BCP-47 tag for speech I/O in the given language
// code, defaulting to en-US for unmapped codes.
func (c *Catalog) SpeechLocale(code string) string {
	if l, ok := c.LanguageByCode(code); ok && l.Locale != "" {
		return l.Locale
	}
	return "en-US"
}

// BuiltinScenarios returns the fixed scenario set.
func (c *Catalog) BuiltinScenarios() []models.Scenario {
	out := make([]models.Scenario, len(c.scenarios))
	copy(out, c.scenarios)
	return out
}

// SystemPrompt builds the system instruction for a conversation in the
// target language, using the scenario role prompt when one exists.
func (c *Catalog) SystemPrompt(language, scenarioTitle string) string {
	tpl := c.basePrompt
	if scenarioTitle != "" {
		if scenarioTpl, ok := c.scenarioPrompts[scenarioTitle]; ok {
			tpl = scenarioTpl
		}
	}
	return strings.ReplaceAll(tpl, "{language}", language)
}

// Fallbacks returns the canned sentences for a language and context bucket.
// Scenario-specific tables override the generic per-language tables; both
// fall back to the default language, and an unknown bucket falls back to
// the general bucket.
func (c *Catalog) Fallbacks(language, scenarioTitle, bucket string) []FallbackEntry {
	if scenarioTitle != "" {
		if byLang, ok := c.scenarioFallbacks[scenarioTitle]; ok {
			if table, ok := byLang[language]; ok {
				if entries := table[bucket]; len(entries) > 0 {
					return entries
				}
				if entries := table[BucketGeneral]; len(entries) > 0 {
					return entries
				}
			}
		}
	}

	table, ok := c.fallbacks[language]
	if !ok {
		table = c.fallbacks[DefaultFallbackLanguage]
	}
	if entries := table[bucket]; len(entries) > 0 {
		return entries
	}
	return table[BucketGeneral]
}

// ScenarioOpenings returns the scenario-specific greeting entries for a
// language, when that scenario carries its own fallback table.
func (c *Catalog) ScenarioOpenings(scenarioTitle, language string) ([]FallbackEntry, bool) {
	byLang, ok := c.scenarioFallbacks[scenarioTitle]
	if !ok {
		return nil, false
	}
	table, ok := byLang[language]
	if !ok {
		return nil, false
	}
	entries := table[BucketGreeting]
	if len(entries) == 0 {
		return nil, false
	}
	return entries, true
}

// Hint scans the language's hint table for a literal substring match in
// text. The first matching entry wins.
func (c *Catalog) Hint(text, language string) (string, bool) {
	lower := strings.ToLower(text)
	for _, entry := range c.hints[language] {
		if strings.Contains(lower, strings.ToLower(entry.Phrase)) {
			return fmt.Sprintf("Contains: %q = %q", entry.Phrase, entry.Gloss), true
		}
	}
	return "", false
}

// WelcomeMessage returns the opening line for a language code.
func (c *Catalog) WelcomeMessage(code string) string {
	if msg, ok := c.welcome[code]; ok {
		return msg
	}
	return c.welcomeDefault
}

// WelcomeGloss returns the English rendering of the welcome line.
func (c *Catalog) WelcomeGloss() string {
	return c.welcomeDefault
}
