package rules

import (
	"strings"
)

const defaultQuantity = "1 serving"

type pick struct {
	name     string
	quantity string
	notes    string
	matches  func(FoodItem) bool
}

type archetype struct {
	slot      MealSlot
	rationale string
	picks     []pick
}

var archetypes = []archetype{
	{
		slot:      MealSlot{Name: "Early Morning", Time: "6:00 AM"},
		rationale: "Stimulates digestion and balances morning dosha",
		picks: []pick{
			{name: "Ginger", quantity: "1 inch piece", notes: "Warm water with ginger for digestion", matches: digestiveStimulant},
		},
	},
	{
		slot:      MealSlot{Name: "Breakfast", Time: "8:00 AM"},
		rationale: "Provides sustained energy without aggravating dominant dosha",
		picks: []pick{
			{name: "Mung Dal", quantity: "1 cup", notes: "Light and protein-rich", matches: proteinVataPacifying},
			{name: "Ghee", quantity: "1 tsp", notes: "For nourishment and digestion", matches: heatingVataPacifying},
		},
	},
	{
		slot:      MealSlot{Name: "Mid-Morning", Time: "11:00 AM"},
		rationale: "Maintains hydration and electrolyte balance",
		picks: []pick{
			{name: "Coconut Water", quantity: "1 cup", notes: "Hydrating and cooling", matches: potencyIs(PotencyCooling)},
		},
	},
	{
		slot:      MealSlot{Name: "Lunch", Time: "1:00 PM"},
		rationale: "Balanced meal with all six tastes for optimal digestion",
		picks: []pick{
			{name: "Basmati Rice", quantity: "1 cup", notes: "Easy to digest", matches: potencyIs(PotencyCooling)},
			{name: "Spinach", quantity: "1 cup cooked", notes: "Rich in iron and nutrients", matches: potencyIs(PotencyCooling)},
			{name: "Turmeric", quantity: "1 tsp", notes: "Anti-inflammatory properties", matches: qualityIs("LIGHT")},
		},
	},
	{
		slot:      MealSlot{Name: "Evening Snack", Time: "4:30 PM"},
		rationale: "Provides healthy fats and sustained energy",
		picks: []pick{
			{name: "Almonds", quantity: "10 almonds", notes: "Soaked overnight for better digestion", matches: qualityIs("OILY")},
		},
	},
	{
		slot:      MealSlot{Name: "Dinner", Time: "7:00 PM"},
		rationale: "Light meal to promote good sleep and digestion",
		picks: []pick{
			{name: "Mung Dal", quantity: "3/4 cup", notes: "Light soup for easy digestion", matches: qualityIs("LIGHT")},
			{name: "Ginger", quantity: "1/2 inch", notes: "Aids digestion", matches: qualityIs("LIGHT")},
		},
	},
}

// MealTemplate возвращает фиксированное расписание из шести приемов пищи.
func MealTemplate() []MealSlot {
	slots := make([]MealSlot, 0, len(archetypes))
	for _, a := range archetypes {
		slots = append(slots, a.slot)
	}
	return slots
}

// AssembleMeals распределяет продукты из пула по приемам пищи.
//
// Для каждой позиции архетипа продукт ищется по названию; если его нет,
// берется первый неиспользованный в этом приеме продукт, подходящий под
// фильтр позиции, иначе первый неиспользованный продукт пула. Если пул
// исчерпан, позиция пропускается. Итоги приема считаются по выбранным
// продуктам без масштабирования по количеству.
func AssembleMeals(pool []FoodItem) []MealAssignment {
	meals := make([]MealAssignment, 0, len(archetypes))
	for _, a := range archetypes {
		meal := MealAssignment{
			Name:      a.slot.Name,
			Time:      a.slot.Time,
			Foods:     make([]MealFood, 0, len(a.picks)),
			Rationale: a.rationale,
		}

		used := make(map[int]bool, len(a.picks))
		for _, p := range a.picks {
			idx, exact := resolvePick(pool, p, used)
			if idx < 0 {
				continue
			}
			used[idx] = true

			food := pool[idx]
			meal.Foods = append(meal.Foods, servingFor(p, food, exact))
			meal.Totals = meal.Totals.Add(food.Nutrition)
		}

		meals = append(meals, meal)
	}

	return meals
}

func resolvePick(pool []FoodItem, p pick, used map[int]bool) (int, bool) {
	for i, food := range pool {
		if !used[i] && strings.EqualFold(strings.TrimSpace(food.Name), p.name) {
			return i, true
		}
	}

	if p.matches != nil {
		for i, food := range pool {
			if !used[i] && p.matches(food) {
				return i, false
			}
		}
	}

	for i := range pool {
		if !used[i] {
			return i, false
		}
	}

	return -1, false
}

func servingFor(p pick, food FoodItem, exact bool) MealFood {
	if exact {
		return MealFood{Food: food, Quantity: p.quantity, Notes: p.notes}
	}

	quantity := strings.TrimSpace(food.ServingSize)
	if quantity == "" {
		quantity = defaultQuantity
	}
	return MealFood{Food: food, Quantity: quantity, Notes: "In place of " + p.name}
}

func digestiveStimulant(food FoodItem) bool {
	return food.Potency == PotencyHeating && food.HasTaste("PUNGENT")
}

func proteinVataPacifying(food FoodItem) bool {
	return food.Nutrition.Protein >= 5 && food.VataEffect == EffectPacifies
}

func heatingVataPacifying(food FoodItem) bool {
	return food.Potency == PotencyHeating && food.VataEffect == EffectPacifies
}

func potencyIs(potency Potency) func(FoodItem) bool {
	return func(food FoodItem) bool {
		return food.Potency == potency
	}
}

func qualityIs(quality string) func(FoodItem) bool {
	return func(food FoodItem) bool {
		return food.HasQuality(quality)
	}
}
