package rules

import (
	"fmt"
	"strings"
)

const (
	nutritionalRationale = "The plan provides balanced macronutrients with adequate protein for tissue repair, complex carbohydrates for sustained energy, and healthy fats for hormone production. Total daily calories are adjusted to support the patient's goals."
	lifestyleRationale   = "Meal timing is aligned with natural circadian rhythms and digestive fire cycles. Food preparation methods are chosen to enhance digestibility and nutrient absorption."
)

func buildRationale(primary Dosha, goals []string) Rationale {
	target := "all three doshas"
	if primary != "" {
		target = fmt.Sprintf("%s dosha", primary)
	}

	support := "overall well-being"
	if len(goals) > 0 {
		support = "goals: " + strings.Join(goals, ", ")
	}

	return Rationale{
		Ayurvedic: fmt.Sprintf(
			"This plan is designed to balance %s while supporting the patient's %s. The food combinations are selected to provide all six tastes (rasa) and optimize digestion (agni).",
			target, support,
		),
		Nutritional: nutritionalRationale,
		Lifestyle:   lifestyleRationale,
	}
}

func planName(patientName string) string {
	name := strings.TrimSpace(patientName)
	if name == "" {
		return "Personalized Diet Plan"
	}
	return name + "'s Personalized Diet Plan"
}

func planDescription(primary Dosha, goals []string) string {
	prefix := "dosha"
	if primary != "" {
		prefix = string(primary)
	}

	description := fmt.Sprintf("A %s-balancing diet plan", prefix)
	if len(goals) > 0 {
		description += " for " + strings.Join(goals, " and ")
	}
	return description
}

func cleanGoals(goals []string) []string {
	out := make([]string, 0, len(goals))
	for _, goal := range goals {
		if trimmed := strings.TrimSpace(goal); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
