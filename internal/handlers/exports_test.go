package handlers

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"

	"example.com/ayur-diet-planner/backend/internal/rules"
)

// TestWriteMealsCSV проверяет строки выгрузки приемов пищи.
func TestWriteMealsCSV(t *testing.T) {
	response := PlanDetailResponse{
		Plan: PlanResponse{ID: uuid.New(), Name: "Plan"},
		Meals: []MealResponse{{
			Name: "Breakfast",
			Time: "7:00 AM",
			Foods: []MealFoodResponse{{
				FoodID:    uuid.New(),
				Name:      "Oats, rolled",
				Quantity:  "1 cup",
				Nutrition: rules.Nutrition{Calories: 150.5},
			}},
		}},
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeMealsCSV(writer, response); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	writer.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected header and one row, got %d", len(records))
	}
	if records[1][5] != "Oats, rolled" || records[1][7] != "150.5" {
		t.Fatalf("unexpected row: %v", records[1])
	}
}

// TestWriteAdviceCSVSkipsEmptyRationale проверяет выгрузку рекомендаций.
func TestWriteAdviceCSVSkipsEmptyRationale(t *testing.T) {
	response := PlanDetailResponse{Plan: PlanResponse{
		ID:              uuid.New(),
		Warnings:        []string{"Avoid cold foods"},
		Recommendations: []string{"Eat at regular times"},
		Rationale:       rules.Rationale{Ayurvedic: "warm and grounding"},
	}}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeAdviceCSV(writer, response); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	writer.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected header and three rows, got %d", len(records))
	}
	if records[3][2] != "rationale_ayurvedic" {
		t.Fatalf("unexpected kind: %s", records[3][2])
	}
}
