// internal/services/scenario_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingualife/lingualife/internal/models"
	"github.com/lingualife/lingualife/internal/storage"
)

func newScenarioService(t *testing.T) *ScenarioService {
	t.Helper()
	store, err := storage.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return NewScenarioService(store, newTestCatalog(t))
}

func TestListScenariosIncludesBuiltins(t *testing.T) {
	svc := newScenarioService(t)

	list := svc.ListScenarios()
	require.NotEmpty(t, list)

	titles := make([]string, 0, len(list))
	for _, sc := range list {
		titles = append(titles, sc.Title)
		assert.False(t, sc.Custom)
	}
	assert.Contains(t, titles, "Restaurant Order")
	assert.Contains(t, titles, "Hotel Check-in")
}

func TestCreateScenarioRoundTrip(t *testing.T) {
	svc := newScenarioService(t)

	created, err := svc.CreateScenario(models.Scenario{
		Title:      "Airport",
		Difficulty: models.DifficultyIntermediate,
		Phrases: []models.Phrase{
			{English: "Where is my gate?", Translations: map[string]string{"es": "¿Dónde está mi puerta?"}},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Custom)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NotEmpty(t, created.Phrases[0].ID)
	assert.Equal(t, 1, created.Situations)

	got, err := svc.GetScenario(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Airport", got.Title)

	list := svc.ListScenarios()
	assert.Equal(t, created.ID, list[len(list)-1].ID)
}

func TestCreateScenarioValidation(t *testing.T) {
	svc := newScenarioService(t)

	_, err := svc.CreateScenario(models.Scenario{})
	assert.ErrorIs(t, err, ErrScenarioInvalid)

	_, err = svc.CreateScenario(models.Scenario{Title: "X", Difficulty: "impossible"})
	assert.ErrorIs(t, err, ErrScenarioInvalid)

	// Difficulty defaults to beginner.
	created, err := svc.CreateScenario(models.Scenario{Title: "Bank Visit"})
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyBeginner, created.Difficulty)
}

func TestUpdateScenarioMergesPatch(t *testing.T) {
	svc := newScenarioService(t)

	created, err := svc.CreateScenario(models.Scenario{Title: "Airport", Description: "original"})
	require.NoError(t, err)

	newTitle := "Airport Departures"
	newDifficulty := models.DifficultyAdvanced
	updated, err := svc.UpdateScenario(created.ID, models.ScenarioPatch{
		Title:      &newTitle,
		Difficulty: &newDifficulty,
	})
	require.NoError(t, err)

	assert.Equal(t, "Airport Departures", updated.Title)
	assert.Equal(t, models.DifficultyAdvanced, updated.Difficulty)
	// Unpatched fields are untouched.
	assert.Equal(t, "original", updated.Description)
}

func TestUpdateScenarioErrors(t *testing.T) {
	svc := newScenarioService(t)

	title := "New Title"
	_, err := svc.UpdateScenario("1", models.ScenarioPatch{Title: &title})
	assert.ErrorIs(t, err, ErrScenarioReadOnly)

	_, err = svc.UpdateScenario("no-such-id", models.ScenarioPatch{Title: &title})
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestDeleteScenario(t *testing.T) {
	svc := newScenarioService(t)

	created, err := svc.CreateScenario(models.Scenario{Title: "Airport"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteScenario(created.ID))
	_, err = svc.GetScenario(created.ID)
	assert.ErrorIs(t, err, ErrScenarioNotFound)

	// Deleting a missing custom id is a no-op; built-ins are protected.
	assert.NoError(t, svc.DeleteScenario("no-such-id"))
	assert.ErrorIs(t, svc.DeleteScenario("1"), ErrScenarioReadOnly)
}

func TestCustomScenariosSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewJSONStore(dir)
	require.NoError(t, err)
	catalog := newTestCatalog(t)

	first := NewScenarioService(store, catalog)
	created, err := first.CreateScenario(models.Scenario{Title: "Airport"})
	require.NoError(t, err)

	// A fresh service over the same directory sees the stored scenario.
	store2, err := storage.NewJSONStore(dir)
	require.NoError(t, err)
	second := NewScenarioService(store2, catalog)

	got, err := second.GetScenario(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Airport", got.Title)
	assert.True(t, got.Custom)
}
