package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mealFoodNames(meals []MealAssignment) [][]string {
	out := make([][]string, 0, len(meals))
	for _, meal := range meals {
		row := make([]string, 0, len(meal.Foods))
		for _, f := range meal.Foods {
			row = append(row, f.Food.Name)
		}
		out = append(out, row)
	}
	return out
}

// TestMealTemplate проверяет фиксированное расписание приемов пищи.
func TestMealTemplate(t *testing.T) {
	assert.Equal(t, []MealSlot{
		{Name: "Early Morning", Time: "6:00 AM"},
		{Name: "Breakfast", Time: "8:00 AM"},
		{Name: "Mid-Morning", Time: "11:00 AM"},
		{Name: "Lunch", Time: "1:00 PM"},
		{Name: "Evening Snack", Time: "4:30 PM"},
		{Name: "Dinner", Time: "7:00 PM"},
	}, MealTemplate())
}

// TestAssembleMealsReference проверяет подбор архетипных продуктов.
func TestAssembleMealsReference(t *testing.T) {
	meals := AssembleMeals(referenceFoods())

	assert.Equal(t, [][]string{
		{"Ginger"},
		{"Mung Dal", "Ghee"},
		{"Coconut Water"},
		{"Basmati Rice", "Spinach", "Turmeric"},
		{"Almonds"},
		{"Mung Dal", "Ginger"},
	}, mealFoodNames(meals))

	assert.Equal(t, "10 almonds", meals[4].Foods[0].Quantity)
	assert.Equal(t, "Soaked overnight for better digestion", meals[4].Foods[0].Notes)
	assert.Equal(t, Nutrition{Calories: 347, Protein: 14.2, Fat: 15.8, Carbs: 38.7, Fiber: 15.4}, meals[1].Totals)
}

// TestAssembleMealsOrderIndependent проверяет независимость выбора от порядка каталога.
func TestAssembleMealsOrderIndependent(t *testing.T) {
	reversed := referenceFoods()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}

	assert.Equal(t, mealFoodNames(AssembleMeals(referenceFoods())), mealFoodNames(AssembleMeals(reversed)))
}

// TestAssembleMealsFilterFallback проверяет замену по фильтру позиции.
func TestAssembleMealsFilterFallback(t *testing.T) {
	pool := []FoodItem{
		food("Cucumber", Nutrition{Calories: 16}, EffectNeutral, EffectPacifies, EffectNeutral, PotencyCooling, []string{"LIGHT"}, []string{"SWEET"}, nil),
		food("Black Pepper", Nutrition{Calories: 6}, EffectPacifies, EffectAggravates, EffectPacifies, PotencyHeating, []string{"SHARP"}, []string{"PUNGENT"}, nil),
	}
	pool[0].ServingSize = "1/2 cup sliced"

	meals := AssembleMeals(pool)

	require.Len(t, meals[0].Foods, 1)
	assert.Equal(t, "Black Pepper", meals[0].Foods[0].Food.Name)
	assert.Equal(t, "In place of Ginger", meals[0].Foods[0].Notes)

	require.Len(t, meals[2].Foods, 1)
	assert.Equal(t, "Cucumber", meals[2].Foods[0].Food.Name)
	assert.Equal(t, "1/2 cup sliced", meals[2].Foods[0].Quantity)

	assert.Len(t, meals[3].Foods, 2)
}

// TestAssembleMealsSingleFood проверяет, что продукт не повторяется внутри приема.
func TestAssembleMealsSingleFood(t *testing.T) {
	pool := referenceFoods()[:1]

	for _, meal := range AssembleMeals(pool) {
		require.Len(t, meal.Foods, 1, meal.Name)
		assert.Equal(t, pool[0].Nutrition, meal.Totals)
	}
}
