package catalogue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

// TestReference проверяет разбор встроенного каталога.
func TestReference(t *testing.T) {
	foods, err := Reference()
	require.NoError(t, err)
	require.Len(t, foods, 8)

	rice := foods[0]
	assert.Equal(t, "basmati-rice", rice.ID)
	assert.Equal(t, "Basmati Rice", rice.Name)
	assert.Equal(t, "1 cup (185g cooked)", rice.ServingSize)
	assert.Equal(t, rules.Nutrition{Calories: 205, Protein: 4.3, Fat: 0.4, Carbs: 45, Fiber: 0.6}, rice.Nutrition)
	assert.Equal(t, rules.EffectAggravates, rice.KaphaEffect)
	assert.Equal(t, rules.PotencyCooling, rice.Potency)
	assert.Equal(t, []string{"kapha imbalance", "obesity", "diabetes"}, rice.Contraindications)

	dal := foods[1]
	assert.Equal(t, []string{"high vata (when unsprouted)"}, dal.Contraindications)

	almonds := foods[6]
	assert.Equal(t, "1 oz (28g, about 23 nuts)", almonds.ServingSize)
	assert.True(t, almonds.HasQuality("oily"))
}

// TestReferenceVataPatient проверяет эталонный пример генерации на встроенном каталоге.
func TestReferenceVataPatient(t *testing.T) {
	foods, err := Reference()
	require.NoError(t, err)

	patient := rules.PatientProfile{
		ID:                "p-1",
		Name:              "Ravi",
		Prakriti:          &rules.Prakriti{Vata: 45, Pitta: 35, Kapha: 20},
		Goals:             []string{"Weight Loss"},
		Allergies:         []string{"Peanuts"},
		ChronicConditions: []string{"Acidity"},
	}

	plan, err := rules.GeneratePlan(patient, foods, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, rules.Vata, plan.DominantDosha)
	for _, meal := range plan.Meals {
		for _, f := range meal.Foods {
			assert.NotEqual(t, "Spinach", f.Food.Name)
		}
	}
	assert.Contains(t, plan.Warnings, "Avoid spicy foods and large meals")
	assert.Contains(t, plan.Recommendations, "Maintain regular meal times")
	assert.Subset(t, plan.Recommendations, rules.GeneralRecommendations)
}

// TestLoadErrors проверяет отклонение некорректных каталогов.
func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown effect":  "foods:\n  - name: Salt\n    effects: {vata: CALMS}\n",
		"unknown potency": "foods:\n  - name: Salt\n    potency: WARM\n",
		"missing name":    "foods:\n  - serving_size: 1 tsp\n",
		"negative value":  "foods:\n  - name: Salt\n    nutrition: {calories: -1}\n",
		"duplicate":       "foods:\n  - name: Salt\n  - name: salt\n",
		"unknown field":   "foods:\n  - name: Salt\n    colour: white\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidCatalogue)
		})
	}
}

// TestLoadDefaults проверяет значения по умолчанию и пустой ввод.
func TestLoadDefaults(t *testing.T) {
	foods, err := Load(strings.NewReader("foods:\n  - name: ' Cumin Seeds '\n    taste: [pungent, '']\n"))
	require.NoError(t, err)
	require.Len(t, foods, 1)

	assert.Equal(t, "cumin-seeds", foods[0].ID)
	assert.Equal(t, "Cumin Seeds", foods[0].Name)
	assert.Equal(t, rules.EffectNeutral, foods[0].VataEffect)
	assert.Equal(t, rules.PotencyNeutral, foods[0].Potency)
	assert.Equal(t, []string{"PUNGENT"}, foods[0].Taste)

	empty, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

type recordingStore struct {
	names []string
	fail  string
}

func (s *recordingStore) Upsert(_ context.Context, food rules.FoodItem) (models.FoodItem, error) {
	if food.Name == s.fail {
		return models.FoodItem{}, errors.New("boom")
	}
	s.names = append(s.names, food.Name)
	return models.FoodItem{Name: food.Name}, nil
}

// TestSeed проверяет запись каталога в хранилище.
func TestSeed(t *testing.T) {
	foods, err := Source("")
	require.NoError(t, err)

	store := &recordingStore{}
	count, err := Seed(context.Background(), store, foods)
	require.NoError(t, err)
	assert.Equal(t, 8, count)
	assert.Equal(t, "Basmati Rice", store.names[0])

	failing := &recordingStore{fail: foods[2].Name}
	count, err = Seed(context.Background(), failing, foods)
	require.Error(t, err)
	assert.Equal(t, 2, count)
	assert.Contains(t, err.Error(), foods[2].Name)
}
