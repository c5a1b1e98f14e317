package rules

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2024, time.March, 10, 14, 30, 0, 0, time.UTC)

func foodNames(plan DietPlan) []string {
	names := make([]string, 0)
	for _, meal := range plan.Meals {
		for _, f := range meal.Foods {
			names = append(names, f.Food.Name)
		}
	}
	return names
}

// TestGeneratePlanVataExample проверяет эталонный пример с доминирующей ватой.
func TestGeneratePlanVataExample(t *testing.T) {
	patient := profile(45, 35, 20)
	patient.Goals = []string{"Weight Loss"}
	patient.Allergies = []string{"Peanuts"}
	patient.ChronicConditions = []string{"Acidity"}

	plan, err := GeneratePlan(patient, referenceFoods(), generatedAt)
	require.NoError(t, err)

	assert.Equal(t, Vata, plan.DominantDosha)
	assert.NotContains(t, foodNames(plan), "Spinach")
	assert.Equal(t, 7, plan.SuitableFoods)
	require.Len(t, plan.Excluded, 1)
	assert.Equal(t, "Spinach", plan.Excluded[0].FoodName)

	assert.Equal(t, []string{"Avoid spicy foods and large meals"}, plan.Warnings)
	assert.Equal(t, []string{
		"Eat slowly and chew thoroughly",
		"Maintain regular meal times",
		"Include warm, cooked foods",
		"Drink warm water throughout the day",
		"Eat in a calm environment",
		"Allow 3-4 hours between meals",
		"Avoid eating 2-3 hours before bedtime",
	}, plan.Recommendations)

	assert.Equal(t, "Asha's Personalized Diet Plan", plan.Name)
	assert.Equal(t, "A vata-balancing diet plan for Weight Loss", plan.Description)
	assert.Contains(t, plan.Rationale.Ayurvedic, "balance vata dosha")
	assert.Contains(t, plan.Rationale.Ayurvedic, "goals: Weight Loss")

	assert.Equal(t, "pitta-vata", plan.Assessment.Constitution)
	assert.Equal(t, []Dosha{Vata, Pitta}, plan.Assessment.Dominant)
}

// TestGeneratePlanLunchFallback проверяет замену отфильтрованного продукта в обеде.
func TestGeneratePlanLunchFallback(t *testing.T) {
	plan, err := GeneratePlan(profile(45, 35, 20), referenceFoods(), generatedAt)
	require.NoError(t, err)

	lunch := plan.Meals[3]
	require.Equal(t, "Lunch", lunch.Name)
	require.Len(t, lunch.Foods, 3)
	assert.Equal(t, "Basmati Rice", lunch.Foods[0].Food.Name)
	assert.Equal(t, "Mung Dal", lunch.Foods[1].Food.Name)
	assert.Equal(t, "In place of Spinach", lunch.Foods[1].Notes)
	assert.Equal(t, defaultQuantity, lunch.Foods[1].Quantity)
	assert.Equal(t, "Turmeric", lunch.Foods[2].Food.Name)
	assert.Equal(t, "1 tsp", lunch.Foods[2].Quantity)
}

// TestGeneratePlanPittaExcludesHeatingSpices проверяет фильтрацию для питта-пациента.
func TestGeneratePlanPittaExcludesHeatingSpices(t *testing.T) {
	plan, err := GeneratePlan(profile(10, 60, 30), referenceFoods(), generatedAt)
	require.NoError(t, err)

	names := foodNames(plan)
	assert.NotContains(t, names, "Ginger")
	assert.NotContains(t, names, "Turmeric")
	for _, meal := range plan.Meals {
		assert.NotEmpty(t, meal.Foods, meal.Name)
	}
	assert.Contains(t, plan.Recommendations, "Include cooling foods like coconut water")
	assert.NotContains(t, plan.Recommendations, "Maintain regular meal times")
}

// TestGeneratePlanEmptyCatalogue проверяет план по пустому каталогу.
func TestGeneratePlanEmptyCatalogue(t *testing.T) {
	plan, err := GeneratePlan(profile(45, 35, 20), nil, generatedAt)
	require.NoError(t, err)

	require.Len(t, plan.Meals, 6)
	for _, meal := range plan.Meals {
		assert.Empty(t, meal.Foods)
		assert.Equal(t, Nutrition{}, meal.Totals)
	}
	assert.Equal(t, Nutrition{}, plan.Totals)
	assert.Equal(t, 0, plan.SuitableFoods)
}

// TestGeneratePlanZeroPrakriti проверяет отсутствие доша-фильтрации при нулевых баллах.
func TestGeneratePlanZeroPrakriti(t *testing.T) {
	plan, err := GeneratePlan(profile(0, 0, 0), referenceFoods(), generatedAt)
	require.NoError(t, err)

	assert.Equal(t, Dosha(""), plan.DominantDosha)
	assert.Equal(t, 8, plan.SuitableFoods)
	assert.Equal(t, GeneralRecommendations, plan.Recommendations)
	assert.Empty(t, plan.Warnings)
	assert.Equal(t, "A dosha-balancing diet plan", plan.Description)
	assert.Contains(t, plan.Rationale.Ayurvedic, "balance all three doshas")
	assert.Contains(t, plan.Rationale.Ayurvedic, "overall well-being")
	assert.Empty(t, plan.Assessment.Dominant)
}

// TestGeneratePlanInvalidInput проверяет ошибки контракта входных данных.
func TestGeneratePlanInvalidInput(t *testing.T) {
	cases := map[string]PatientProfile{
		"missing prakriti": {ID: "p", Name: "No Scores"},
		"negative score":   profile(-1, 10, 10),
		"nan score":        profile(math.NaN(), 10, 10),
		"infinite score":   profile(math.Inf(1), 10, 10),
	}

	for name, patient := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := GeneratePlan(patient, referenceFoods(), generatedAt)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// TestGeneratePlanDeterministic проверяет идентичность результата при одинаковом входе.
func TestGeneratePlanDeterministic(t *testing.T) {
	patient := profile(20, 30, 50)
	patient.Goals = []string{"Better Sleep", "Digestion"}

	first, err := GeneratePlan(patient, referenceFoods(), generatedAt)
	require.NoError(t, err)
	second, err := GeneratePlan(patient, referenceFoods(), generatedAt)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	sameDay, err := GeneratePlan(patient, referenceFoods(), generatedAt.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, sameDay.ID)
}

// TestGeneratePlanIDDependsOnInput проверяет разные идентификаторы для разных входов в один день.
func TestGeneratePlanIDDependsOnInput(t *testing.T) {
	vata := profile(60, 25, 15)
	vata.ID = ""
	kapha := profile(10, 20, 70)
	kapha.ID = ""

	first, err := GeneratePlan(vata, referenceFoods(), generatedAt)
	require.NoError(t, err)
	other, err := GeneratePlan(kapha, referenceFoods(), generatedAt)
	require.NoError(t, err)
	smaller, err := GeneratePlan(vata, referenceFoods()[:3], generatedAt)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, other.ID)
	assert.NotEqual(t, first.ID, smaller.ID)
}

// TestGeneratePlanDates проверяет даты начала и окончания плана.
func TestGeneratePlanDates(t *testing.T) {
	plan, err := GeneratePlan(profile(1, 1, 1), nil, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), plan.StartDate)
	assert.Equal(t, time.Date(2024, time.April, 9, 0, 0, 0, 0, time.UTC), plan.EndDate)
}

// TestGeneratePlanGoalsClause проверяет описание плана с несколькими целями.
func TestGeneratePlanGoalsClause(t *testing.T) {
	patient := profile(10, 10, 50)
	patient.Goals = []string{"Weight Loss", "  ", "Better Sleep"}

	plan, err := GeneratePlan(patient, referenceFoods(), generatedAt)
	require.NoError(t, err)

	assert.Equal(t, "A kapha-balancing diet plan for Weight Loss and Better Sleep", plan.Description)
	assert.Contains(t, plan.Rationale.Ayurvedic, "goals: Weight Loss, Better Sleep.")
	assert.Contains(t, plan.Recommendations, "Make lunch the largest meal")
}

// TestGeneratePlanInvariants проверяет инварианты на случайных профилях и каталогах.
func TestGeneratePlanInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	catalogue := referenceFoods()
	allergens := []string{"", "rice", "dal", "almond", "water", "gin"}
	conditions := []string{"", "obesity", "Kapha Imbalance", "cough", "acidity"}
	template := MealTemplate()

	for i := 0; i < 200; i++ {
		patient := profile(float64(rnd.Intn(60)), float64(rnd.Intn(60)), float64(rnd.Intn(60)))
		patient.Allergies = []string{allergens[rnd.Intn(len(allergens))]}
		patient.ChronicConditions = []string{conditions[rnd.Intn(len(conditions))]}

		subset := make([]FoodItem, 0, len(catalogue))
		for _, f := range rnd.Perm(len(catalogue)) {
			if rnd.Intn(3) > 0 {
				subset = append(subset, catalogue[f])
			}
		}

		plan, err := GeneratePlan(patient, subset, generatedAt)
		require.NoError(t, err)

		require.Len(t, plan.Meals, len(template))
		primary, hasPrimary := PrimaryDosha(*patient.Prakriti)

		var total Nutrition
		for idx, meal := range plan.Meals {
			assert.Equal(t, template[idx].Name, meal.Name)
			assert.Equal(t, template[idx].Time, meal.Time)

			var sum Nutrition
			for _, mf := range meal.Foods {
				sum = sum.Add(mf.Food.Nutrition)

				allergy := strings.TrimSpace(patient.Allergies[0])
				if allergy != "" {
					assert.NotContains(t, strings.ToLower(mf.Food.Name), allergy)
				}
				if hasPrimary {
					assert.NotEqual(t, EffectAggravates, mf.Food.Effect(primary))
				}
			}
			assert.Equal(t, sum, meal.Totals)
			total = total.Add(meal.Totals)
		}
		assert.Equal(t, total, plan.Totals)

		assert.Subset(t, plan.Recommendations, GeneralRecommendations)
	}
}
