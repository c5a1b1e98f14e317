package handlers

import (
	"testing"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

// TestAssessmentScoresFromAnswers проверяет подсчет баллов по анкете.
func TestAssessmentScoresFromAnswers(t *testing.T) {
	scores, err := assessmentScores(AssessmentRequest{Answers: []rules.Answer{
		{QuestionID: "physical_frame", Dosha: "vata"},
		{QuestionID: "weight_gain", Dosha: "Kapha"},
	}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if scores.Vata != 1 || scores.Kapha != 1 || scores.Pitta != 0 {
		t.Fatalf("unexpected scores: %+v", scores)
	}
}

// TestAssessmentScoresRequiresOneSource проверяет выбор между анкетой и баллами.
func TestAssessmentScoresRequiresOneSource(t *testing.T) {
	if _, err := assessmentScores(AssessmentRequest{}); err == nil {
		t.Fatal("expected error for empty request")
	}

	both := AssessmentRequest{
		Answers: []rules.Answer{{QuestionID: "physical_frame", Dosha: "vata"}},
		Scores:  &rules.Prakriti{Vata: 1},
	}
	if _, err := assessmentScores(both); err == nil {
		t.Fatal("expected error when both answers and scores are given")
	}

	if _, err := assessmentScores(AssessmentRequest{Scores: &rules.Prakriti{Vata: -1}}); err == nil {
		t.Fatal("expected error for negative score")
	}
}

// TestToPatientResponse проверяет ведущую дошу в ответе.
func TestToPatientResponse(t *testing.T) {
	response := toPatientResponse(models.Patient{Name: "Asha"})
	if response.DominantDosha != "" || response.Assessment != nil {
		t.Fatalf("expected no assessment without prakriti, got %+v", response)
	}

	response = toPatientResponse(models.Patient{Prakriti: &rules.Prakriti{Vata: 2, Pitta: 5, Kapha: 3}})
	if response.DominantDosha != "pitta" {
		t.Fatalf("expected pitta, got %s", response.DominantDosha)
	}
	if response.Assessment == nil || response.Assessment.Pitta != 50 {
		t.Fatalf("unexpected assessment: %+v", response.Assessment)
	}
}

// TestToRuleFoodDefaults проверяет значения по умолчанию для продукта.
func TestToRuleFoodDefaults(t *testing.T) {
	food, err := toRuleFood(FoodRequest{
		Name:        " Ghee ",
		PittaEffect: "pacifies",
		Taste:       []string{"sweet", " "},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if food.Name != "Ghee" || food.VataEffect != rules.EffectNeutral || food.PittaEffect != rules.EffectPacifies {
		t.Fatalf("unexpected food: %+v", food)
	}
	if food.Potency != rules.PotencyNeutral {
		t.Fatalf("expected neutral potency, got %s", food.Potency)
	}
	if len(food.Taste) != 1 || food.Taste[0] != "SWEET" {
		t.Fatalf("unexpected taste: %v", food.Taste)
	}

	if _, err := toRuleFood(FoodRequest{Name: "Chili", Potency: "spicy"}); err == nil {
		t.Fatal("expected error for invalid potency")
	}
	if _, err := toRuleFood(FoodRequest{Name: "Chili", KaphaEffect: "boosts"}); err == nil {
		t.Fatal("expected error for invalid effect")
	}
}
