package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(foods []FoodItem) []string {
	out := make([]string, 0, len(foods))
	for _, f := range foods {
		out = append(out, f.Name)
	}
	return out
}

// TestFilterFoodsAllergy проверяет исключение по аллергенам и пустым строкам.
func TestFilterFoodsAllergy(t *testing.T) {
	patient := profile(0, 0, 0)
	patient.Allergies = []string{"ALMOND", "  ", ""}

	suitable, excluded := FilterFoods(patient, "", referenceFoods())

	assert.Len(t, suitable, 7)
	assert.NotContains(t, names(suitable), "Almonds")
	assert.Equal(t, []Exclusion{{FoodID: "Almonds", FoodName: "Almonds", Reason: "allergy: almond"}}, excluded)
}

// TestFilterFoodsConditions проверяет сопоставление с противопоказаниями.
func TestFilterFoodsConditions(t *testing.T) {
	patient := profile(0, 0, 0)
	patient.ChronicConditions = []string{"Obesity"}

	suitable, _ := FilterFoods(patient, "", referenceFoods())

	assert.Equal(t, []string{"Mung Dal", "Ginger", "Turmeric", "Coconut Water", "Spinach"}, names(suitable))
}

// TestFilterFoodsDosha проверяет исключение продуктов, усиливающих дошу.
func TestFilterFoodsDosha(t *testing.T) {
	suitable, excluded := FilterFoods(profile(0, 0, 0), Kapha, referenceFoods())

	assert.Equal(t, []string{"Mung Dal", "Ghee", "Ginger", "Turmeric", "Spinach"}, names(suitable))
	assert.Len(t, excluded, 3)
	for _, e := range excluded {
		assert.Equal(t, "aggravates kapha", e.Reason)
	}
}

// TestFilterFoodsNoPrimary проверяет, что без доши правило влияния не применяется.
func TestFilterFoodsNoPrimary(t *testing.T) {
	suitable, excluded := FilterFoods(profile(0, 0, 0), "", referenceFoods())

	assert.Len(t, suitable, 8)
	assert.Empty(t, excluded)
}
