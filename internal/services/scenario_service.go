// internal/services/scenario_service.go
package services

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lingualife/lingualife/internal/content"
	"github.com/lingualife/lingualife/internal/models"
	"github.com/lingualife/lingualife/internal/storage"
	"github.com/lingualife/lingualife/internal/utils"
)

const customScenariosKey = "custom_scenarios"

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrScenarioReadOnly = errors.New("built-in scenarios cannot be modified")
	ErrScenarioInvalid  = errors.New("scenario is invalid")
)

// ScenarioService merges the built-in scenario set with user-created custom
// scenarios. Custom scenarios are held in memory as the source of truth and
// mirrored to the store on every mutation.
type ScenarioService struct {
	store   *storage.JSONStore
	catalog *content.Catalog
	logger  *utils.Logger

	mu     sync.RWMutex
	custom []models.Scenario
}

// NewScenarioService loads the persisted custom scenarios. Malformed
// stored data is logged and treated as an empty collection.
func NewScenarioService(store *storage.JSONStore, catalog *content.Catalog) *ScenarioService {
	s := &ScenarioService{
		store:   store,
		catalog: catalog,
		logger:  utils.GetLogger(),
	}

	var saved []models.Scenario
	if err := store.Load(customScenariosKey, &saved); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to load custom scenarios, starting empty", map[string]interface{}{
				"error": err.Error(),
			})
		}
	} else {
		s.custom = saved
	}
	return s
}

// ListScenarios returns built-in scenarios followed by custom ones, custom
// sorted by creation time.
func (s *ScenarioService) ListScenarios() []models.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	builtins := s.catalog.BuiltinScenarios()
	out := make([]models.Scenario, 0, len(builtins)+len(s.custom))
	out = append(out, builtins...)

	custom := make([]models.Scenario, len(s.custom))
	copy(custom, s.custom)
	sort.SliceStable(custom, func(i, j int) bool {
		return custom[i].CreatedAt.Before(custom[j].CreatedAt)
	})
	for _, sc := range custom {
		sc.Custom = true
		out = append(out, sc)
	}
	return out
}

// GetScenario resolves an id in the merged set.
func (s *ScenarioService) GetScenario(id string) (models.Scenario, error) {
	for _, sc := range s.catalog.BuiltinScenarios() {
		if sc.ID == id {
			return sc, nil
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.custom {
		if sc.ID == id {
			sc.Custom = true
			return sc, nil
		}
	}
	return models.Scenario{}, ErrScenarioNotFound
}

// CreateScenario validates and persists a new custom scenario. Ids are
// uuid-generated, so rapid successive creation cannot collide with other
// custom ids or the numeric built-in ids.
func (s *ScenarioService) CreateScenario(sc models.Scenario) (models.Scenario, error) {
	if sc.Title == "" {
		return models.Scenario{}, fmt.Errorf("%w: title is required", ErrScenarioInvalid)
	}
	if sc.Difficulty == "" {
		sc.Difficulty = models.DifficultyBeginner
	}
	if !models.ValidDifficulty(sc.Difficulty) {
		return models.Scenario{}, fmt.Errorf("%w: unknown difficulty %q", ErrScenarioInvalid, sc.Difficulty)
	}

	sc.ID = uuid.NewString()
	sc.Custom = true
	sc.CreatedAt = time.Now()
	if sc.Situations == 0 {
		sc.Situations = len(sc.Phrases)
	}
	for i := range sc.Phrases {
		if sc.Phrases[i].ID == "" {
			sc.Phrases[i].ID = uuid.NewString()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.custom = append(s.custom, sc)
	if err := s.persist(); err != nil {
		s.custom = s.custom[:len(s.custom)-1]
		return models.Scenario{}, err
	}
	return sc, nil
}

// UpdateScenario merges a partial patch into a custom scenario.
func (s *ScenarioService) UpdateScenario(id string, patch models.ScenarioPatch) (models.Scenario, error) {
	if s.isBuiltin(id) {
		return models.Scenario{}, ErrScenarioReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.custom {
		if s.custom[i].ID != id {
			continue
		}
		sc := &s.custom[i]
		if patch.Title != nil {
			sc.Title = *patch.Title
		}
		if patch.Description != nil {
			sc.Description = *patch.Description
		}
		if patch.Category != nil {
			sc.Category = *patch.Category
		}
		if patch.Difficulty != nil {
			if !models.ValidDifficulty(*patch.Difficulty) {
				return models.Scenario{}, fmt.Errorf("%w: unknown difficulty %q", ErrScenarioInvalid, *patch.Difficulty)
			}
			sc.Difficulty = *patch.Difficulty
		}
		if patch.Duration != nil {
			sc.Duration = *patch.Duration
		}
		if patch.Situations != nil {
			sc.Situations = *patch.Situations
		}
		if patch.ImageURL != nil {
			sc.ImageURL = *patch.ImageURL
		}
		if patch.Phrases != nil {
			sc.Phrases = patch.Phrases
		}
		if err := s.persist(); err != nil {
			return models.Scenario{}, err
		}
		result := *sc
		result.Custom = true
		return result, nil
	}
	return models.Scenario{}, ErrScenarioNotFound
}

// DeleteScenario removes a custom scenario. Deleting an id that is not in
// the custom list is a no-op; built-in ids are rejected.
func (s *ScenarioService) DeleteScenario(id string) error {
	if s.isBuiltin(id) {
		return ErrScenarioReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.custom[:0]
	removed := false
	for _, sc := range s.custom {
		if sc.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, sc)
	}
	s.custom = filtered
	if !removed {
		return nil
	}
	return s.persist()
}

func (s *ScenarioService) isBuiltin(id string) bool {
	for _, sc := range s.catalog.BuiltinScenarios() {
		if sc.ID == id {
			return true
		}
	}
	return false
}

// persist mirrors the custom list to the store. Caller holds s.mu.
func (s *ScenarioService) persist() error {
	if err := s.store.Save(customScenariosKey, s.custom); err != nil {
		return fmt.Errorf("save custom scenarios: %w", err)
	}
	return nil
}
