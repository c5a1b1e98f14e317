package rules

import "strings"

type adviceRule struct {
	applies         func(patient PatientProfile, primary Dosha) bool
	warnings        []string
	recommendations []string
}

// GeneralRecommendations добавляются в каждый план.
var GeneralRecommendations = []string{
	"Drink warm water throughout the day",
	"Eat in a calm environment",
	"Allow 3-4 hours between meals",
	"Avoid eating 2-3 hours before bedtime",
}

// order matters: output follows declaration order
var adviceRules = []adviceRule{
	{
		applies:         hasCondition("acidity"),
		warnings:        []string{"Avoid spicy foods and large meals"},
		recommendations: []string{"Eat slowly and chew thoroughly"},
	},
	{
		applies:         primaryIs(Vata),
		recommendations: []string{"Maintain regular meal times", "Include warm, cooked foods"},
	},
	{
		applies:         primaryIs(Pitta),
		recommendations: []string{"Include cooling foods like coconut water", "Avoid excessive heating spices"},
	},
	{
		applies:         primaryIs(Kapha),
		recommendations: []string{"Make lunch the largest meal", "Include light, stimulating spices"},
	},
	{
		applies:         func(PatientProfile, Dosha) bool { return true },
		recommendations: GeneralRecommendations,
	},
}

func buildAdvice(patient PatientProfile, primary Dosha) ([]string, []string) {
	warnings := make([]string, 0)
	recommendations := make([]string, 0, len(GeneralRecommendations)+3)
	for _, rule := range adviceRules {
		if !rule.applies(patient, primary) {
			continue
		}
		warnings = append(warnings, rule.warnings...)
		recommendations = append(recommendations, rule.recommendations...)
	}
	return warnings, recommendations
}

func hasCondition(term string) func(PatientProfile, Dosha) bool {
	return func(patient PatientProfile, _ Dosha) bool {
		for _, condition := range patient.ChronicConditions {
			if strings.Contains(strings.ToLower(condition), term) {
				return true
			}
		}
		return false
	}
}

func primaryIs(d Dosha) func(PatientProfile, Dosha) bool {
	return func(_ PatientProfile, primary Dosha) bool {
		return primary == d
	}
}
