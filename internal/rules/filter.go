package rules

import (
	"fmt"
	"strings"
)

// FilterFoods отбирает подходящие пациенту продукты.
// Продукт исключается, если его название содержит аллерген, если хроническое
// заболевание встречается в противопоказаниях или если продукт усиливает
// основную дошу. Пустая primary отключает последнее правило.
func FilterFoods(patient PatientProfile, primary Dosha, catalogue []FoodItem) ([]FoodItem, []Exclusion) {
	allergies := normalizeTerms(patient.Allergies)
	conditions := normalizeTerms(patient.ChronicConditions)

	suitable := make([]FoodItem, 0, len(catalogue))
	excluded := make([]Exclusion, 0)
	for _, food := range catalogue {
		if reason, ok := exclusionReason(food, allergies, conditions, primary); ok {
			excluded = append(excluded, Exclusion{FoodID: food.ID, FoodName: food.Name, Reason: reason})
			continue
		}
		suitable = append(suitable, food)
	}

	return suitable, excluded
}

func exclusionReason(food FoodItem, allergies, conditions []string, primary Dosha) (string, bool) {
	name := strings.ToLower(food.Name)
	for _, allergy := range allergies {
		if strings.Contains(name, allergy) {
			return fmt.Sprintf("allergy: %s", allergy), true
		}
	}

	for _, contraindication := range food.Contraindications {
		lowered := strings.ToLower(contraindication)
		for _, condition := range conditions {
			if strings.Contains(lowered, condition) {
				return fmt.Sprintf("contraindicated for %s", condition), true
			}
		}
	}

	if primary != "" && food.Effect(primary) == EffectAggravates {
		return fmt.Sprintf("aggravates %s", primary), true
	}

	return "", false
}

// blank terms would match every name
func normalizeTerms(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
