package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalizeFood проверяет разбор перечислений без учета регистра и значения по умолчанию.
func TestNormalizeFood(t *testing.T) {
	food, err := NormalizeFood(FoodItem{Name: "Raw Salad", VataEffect: "aggravates", KaphaEffect: " Pacifies ", Potency: "cooling"})
	require.NoError(t, err)

	assert.Equal(t, EffectAggravates, food.VataEffect)
	assert.Equal(t, EffectNeutral, food.PittaEffect)
	assert.Equal(t, EffectPacifies, food.KaphaEffect)
	assert.Equal(t, PotencyCooling, food.Potency)

	food, err = NormalizeFood(FoodItem{Name: "Water"})
	require.NoError(t, err)
	assert.Equal(t, PotencyNeutral, food.Potency)
}

// TestNormalizeFoodUnknownValues проверяет отказ на неизвестных значениях.
func TestNormalizeFoodUnknownValues(t *testing.T) {
	_, err := NormalizeFood(FoodItem{Name: "Popcorn", VataEffect: "BOGUS"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Popcorn")

	_, err = NormalizeFood(FoodItem{Name: "Popcorn", Potency: "WARM"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestNormalizeCatalogueKeepsInput проверяет, что исходный каталог не меняется.
func TestNormalizeCatalogueKeepsInput(t *testing.T) {
	input := []FoodItem{{Name: "Raw Salad", VataEffect: "aggravates"}}

	out, err := NormalizeCatalogue(input)
	require.NoError(t, err)

	assert.Equal(t, EffectAggravates, out[0].VataEffect)
	assert.Equal(t, DoshaEffect("aggravates"), input[0].VataEffect)
}

// TestGeneratePlanLowercaseEffects проверяет фильтрацию по дошам для каталога из JSON в нижнем регистре.
func TestGeneratePlanLowercaseEffects(t *testing.T) {
	var catalogue []FoodItem
	require.NoError(t, json.Unmarshal([]byte(`[
		{"name": "Raw Salad", "vata_effect": "aggravates", "pitta_effect": "pacifies", "kapha_effect": "pacifies"},
		{"name": "Basmati Rice", "vata_effect": "pacifies", "potency": "cooling"}
	]`), &catalogue))

	plan, err := GeneratePlan(profile(60, 25, 15), catalogue, generatedAt)
	require.NoError(t, err)

	assert.NotContains(t, foodNames(plan), "Raw Salad")
	assert.Equal(t, 1, plan.SuitableFoods)
	require.Len(t, plan.Excluded, 1)
	assert.Equal(t, "aggravates vata", plan.Excluded[0].Reason)
}

// TestGeneratePlanRejectsUnknownEffect проверяет ошибку входа для неизвестного влияния.
func TestGeneratePlanRejectsUnknownEffect(t *testing.T) {
	catalogue := []FoodItem{{Name: "Popcorn", VataEffect: "BOGUS"}}

	_, err := GeneratePlan(profile(60, 25, 15), catalogue, generatedAt)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
