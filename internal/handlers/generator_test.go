package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

// TestToGeneratedPlanInput проверяет перевод результата генератора в черновик.
func TestToGeneratedPlanInput(t *testing.T) {
	patientID, createdBy, foodID := uuid.New(), uuid.New(), uuid.New()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	plan := rules.DietPlan{
		Name:          "Diet plan for Asha",
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, rules.PlanDays),
		DominantDosha: rules.Vata,
		Rationale:     rules.Rationale{Ayurvedic: "warm foods"},
		Warnings:      []string{"Avoid cold foods"},
		Meals: []rules.MealAssignment{{
			Name:      "Breakfast",
			Time:      "7:00 AM",
			Rationale: "light start",
			Foods: []rules.MealFood{{
				Food:     rules.FoodItem{ID: foodID.String(), Name: "Oats"},
				Quantity: "1 serving",
			}},
		}},
	}

	input, err := toGeneratedPlanInput(plan, patientID, createdBy)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !input.IsGenerated || input.Status != models.PlanStatusDraft {
		t.Fatalf("expected generated draft, got %+v", input)
	}
	if input.DominantDosha == nil || *input.DominantDosha != "vata" {
		t.Fatalf("unexpected dominant dosha: %v", input.DominantDosha)
	}
	if !input.EndDate.Equal(start.AddDate(0, 0, 30)) {
		t.Fatalf("unexpected end date: %v", input.EndDate)
	}
	if len(input.Meals) != 1 || input.Meals[0].Notes != "light start" {
		t.Fatalf("unexpected meals: %+v", input.Meals)
	}
	if input.Meals[0].Foods[0].FoodID != foodID || input.Meals[0].Foods[0].Quantity != "1 serving" {
		t.Fatalf("unexpected meal food: %+v", input.Meals[0].Foods[0])
	}
}

// TestToGeneratedPlanInputRejectsForeignIDs проверяет продукты без идентификатора каталога.
func TestToGeneratedPlanInputRejectsForeignIDs(t *testing.T) {
	plan := rules.DietPlan{
		Meals: []rules.MealAssignment{{
			Name:  "Lunch",
			Foods: []rules.MealFood{{Food: rules.FoodItem{ID: "basmati-rice", Name: "Basmati Rice"}}},
		}},
	}

	if _, err := toGeneratedPlanInput(plan, uuid.New(), uuid.New()); err == nil {
		t.Fatal("expected error for non-uuid food id")
	}
}

// TestToGeneratedPlanInputWithoutDosha проверяет план без ведущей доши.
func TestToGeneratedPlanInputWithoutDosha(t *testing.T) {
	input, err := toGeneratedPlanInput(rules.DietPlan{Name: "Empty"}, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if input.DominantDosha != nil || len(input.Meals) != 0 {
		t.Fatalf("unexpected input: %+v", input)
	}
}

func runPreview(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := &GeneratorHandler{Now: func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generator/preview", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set(auth.ContextUserIDKey, uuid.New())

	if err := handler.Preview(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

// TestPreviewExcludesLowercaseAggravating проверяет исключение продукта с влиянием в нижнем регистре.
func TestPreviewExcludesLowercaseAggravating(t *testing.T) {
	rec := runPreview(t, `{
		"patient": {"name": "Asha", "prakriti": {"vata": 60, "pitta": 25, "kapha": 15}},
		"catalogue": [
			{"name": "Raw Salad", "vata_effect": "aggravates"},
			{"name": "Basmati Rice", "vata_effect": "pacifies"}
		]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var plan rules.DietPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(plan.Excluded) != 1 || plan.Excluded[0].FoodName != "Raw Salad" {
		t.Fatalf("expected Raw Salad to be excluded, got %+v", plan.Excluded)
	}
	for _, meal := range plan.Meals {
		for _, item := range meal.Foods {
			if item.Food.Name == "Raw Salad" {
				t.Fatalf("Raw Salad placed in %s", meal.Name)
			}
		}
	}
}

// TestPreviewRejectsUnknownEffect проверяет ответ 422 на неизвестное влияние продукта.
func TestPreviewRejectsUnknownEffect(t *testing.T) {
	rec := runPreview(t, `{
		"patient": {"prakriti": {"vata": 60, "pitta": 25, "kapha": 15}},
		"catalogue": [{"name": "Popcorn", "vata_effect": "BOGUS"}]
	}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Popcorn") {
		t.Fatalf("expected error to name the food: %s", rec.Body.String())
	}
}
