package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

// TestParsePeriodValid проверяет корректный разбор периода.
func TestParsePeriodValid(t *testing.T) {
	start, end, err := parsePeriod("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if start.Format(dateLayout) != "2024-01-01" {
		t.Fatalf("unexpected start: %s", start.Format(dateLayout))
	}
	if end.Format(dateLayout) != "2024-01-31" {
		t.Fatalf("unexpected end: %s", end.Format(dateLayout))
	}
}

// TestParsePeriodInvalid проверяет ошибки при неверном периоде.
func TestParsePeriodInvalid(t *testing.T) {
	if _, _, err := parsePeriod("2024/01/01", "2024-01-31"); err == nil {
		t.Fatal("expected error for invalid start format")
	}

	if _, _, err := parsePeriod("2024-02-01", "2024-01-31"); err == nil {
		t.Fatal("expected error for end before start")
	}
}

// TestParseUUIDsRejectsDuplicates проверяет разбор списка идентификаторов.
func TestParseUUIDsRejectsDuplicates(t *testing.T) {
	id := uuid.New()

	ids, err := parseUUIDs([]string{id.String(), " " + uuid.NewString() + " "})
	if err != nil || len(ids) != 2 || ids[0] != id {
		t.Fatalf("unexpected result: %v, %v", ids, err)
	}

	if _, err := parseUUIDs([]string{id.String(), id.String()}); err == nil {
		t.Fatal("expected error for duplicate id")
	}

	if _, err := parseUUIDs([]string{"not-a-uuid"}); err == nil {
		t.Fatal("expected error for invalid id")
	}
}

// TestToPlanInput проверяет сборку ручного плана из запроса.
func TestToPlanInput(t *testing.T) {
	patientID, createdBy, foodID := uuid.New(), uuid.New(), uuid.New()
	req := PlanRequest{
		Name:      "  Vata balance ",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
		Warnings:  []string{" ", "Avoid cold drinks"},
		Meals: []MealRequest{{
			Name:  "Breakfast",
			Time:  "7:00 AM",
			Foods: []MealFoodRequest{{FoodID: foodID.String(), Quantity: " 1 cup "}},
		}},
	}

	input, err := toPlanInput(req, patientID, createdBy)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if input.Name != "Vata balance" || input.Status != models.PlanStatusDraft {
		t.Fatalf("unexpected plan input: %+v", input)
	}
	if len(input.Warnings) != 1 {
		t.Fatalf("expected blank warning to be dropped, got %v", input.Warnings)
	}
	if len(input.Meals) != 1 || input.Meals[0].Foods[0].FoodID != foodID || input.Meals[0].Foods[0].Quantity != "1 cup" {
		t.Fatalf("unexpected meals: %+v", input.Meals)
	}

	req.Meals[0].Foods[0].FoodID = "bad"
	if _, err := toPlanInput(req, patientID, createdBy); err == nil {
		t.Fatal("expected error for invalid food id")
	}
}

// TestAssemblePlanDetailTotals проверяет пересчет итогов по каталогу.
func TestAssemblePlanDetailTotals(t *testing.T) {
	planID := uuid.New()
	breakfast, lunch := uuid.New(), uuid.New()
	rice, ghee := uuid.New(), uuid.New()

	plan := models.DietPlan{ID: planID, Name: "Plan", StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	meals := []models.DietMeal{
		{ID: breakfast, PlanID: planID, Name: "Breakfast"},
		{ID: lunch, PlanID: planID, Name: "Lunch"},
	}
	mealFoods := []models.MealFood{
		{ID: uuid.New(), MealID: breakfast, FoodID: rice},
		{ID: uuid.New(), MealID: breakfast, FoodID: ghee},
		{ID: uuid.New(), MealID: lunch, FoodID: rice},
		{ID: uuid.New(), MealID: uuid.New(), FoodID: rice},
	}
	catalogue := map[uuid.UUID]models.FoodItem{
		rice: {ID: rice, Name: "Basmati Rice", Nutrition: rules.Nutrition{Calories: 205, Protein: 4.3}},
		ghee: {ID: ghee, Name: "Ghee", Nutrition: rules.Nutrition{Calories: 112, Fat: 12.7}},
	}

	response := assemblePlanDetail(plan, meals, mealFoods, catalogue)

	if len(response.Meals) != 2 {
		t.Fatalf("expected 2 meals, got %d", len(response.Meals))
	}
	if len(response.Meals[0].Foods) != 2 || len(response.Meals[1].Foods) != 1 {
		t.Fatalf("unexpected foods per meal: %d, %d", len(response.Meals[0].Foods), len(response.Meals[1].Foods))
	}
	if response.Meals[0].Totals.Calories != 317 {
		t.Fatalf("expected breakfast calories 317, got %v", response.Meals[0].Totals.Calories)
	}
	if response.Totals.Calories != 522 || response.Totals.Fat != 12.7 {
		t.Fatalf("unexpected plan totals: %+v", response.Totals)
	}
	if response.Plan.StartDate != "2024-01-01" {
		t.Fatalf("unexpected start date: %s", response.Plan.StartDate)
	}
}

// TestAssemblePlanDetailEmptyMeal проверяет пустой список продуктов у приема пищи.
func TestAssemblePlanDetailEmptyMeal(t *testing.T) {
	meal := models.DietMeal{ID: uuid.New(), Name: "Dinner"}
	response := assemblePlanDetail(models.DietPlan{ID: uuid.New()}, []models.DietMeal{meal}, nil, nil)

	if response.Meals[0].Foods == nil {
		t.Fatal("expected non-nil foods slice")
	}
	if response.Plan.Warnings == nil || response.Plan.Recommendations == nil {
		t.Fatal("expected non-nil advice slices")
	}
}

// TestPlanRecipients проверяет список получателей событий.
func TestPlanRecipients(t *testing.T) {
	actor, patientUser := uuid.New(), uuid.New()

	if got := planRecipients(actor, models.Patient{}); len(got) != 1 || got[0] != actor {
		t.Fatalf("expected actor only, got %v", got)
	}

	if got := planRecipients(actor, models.Patient{UserID: &patientUser}); len(got) != 2 || got[1] != patientUser {
		t.Fatalf("expected actor and patient, got %v", got)
	}

	if got := planRecipients(actor, models.Patient{UserID: &actor}); len(got) != 1 {
		t.Fatalf("expected duplicate recipient to be dropped, got %v", got)
	}
}
