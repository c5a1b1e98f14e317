package handlers

import (
	"context"

	"github.com/google/uuid"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/repository"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

func buildPlanDetailResponse(ctx context.Context, plans *repository.DietPlanRepository, foods *repository.FoodRepository, plan models.DietPlan) (PlanDetailResponse, error) {
	meals, err := plans.ListMeals(ctx, plan.ID)
	if err != nil {
		return PlanDetailResponse{}, err
	}

	mealIDs := make([]uuid.UUID, 0, len(meals))
	for _, meal := range meals {
		mealIDs = append(mealIDs, meal.ID)
	}

	mealFoods, err := plans.ListMealFoods(ctx, mealIDs)
	if err != nil {
		return PlanDetailResponse{}, err
	}

	foodIDs := make([]uuid.UUID, 0, len(mealFoods))
	for _, food := range mealFoods {
		foodIDs = append(foodIDs, food.FoodID)
	}

	catalogue, err := foods.ListByIDs(ctx, foodIDs)
	if err != nil {
		return PlanDetailResponse{}, err
	}

	return assemblePlanDetail(plan, meals, mealFoods, catalogue), nil
}

// assemblePlanDetail раскладывает продукты по приемам пищи и считает итоги
// по пищевой ценности продуктов каталога.
func assemblePlanDetail(plan models.DietPlan, meals []models.DietMeal, mealFoods []models.MealFood, catalogue map[uuid.UUID]models.FoodItem) PlanDetailResponse {
	mealResponses := make([]MealResponse, 0, len(meals))
	mealIndex := make(map[uuid.UUID]int, len(meals))

	for _, meal := range meals {
		mealIndex[meal.ID] = len(mealResponses)
		mealResponses = append(mealResponses, MealResponse{
			ID:        meal.ID,
			Name:      meal.Name,
			Time:      meal.Time,
			Notes:     meal.Notes,
			SortOrder: meal.SortOrder,
			Foods:     []MealFoodResponse{},
		})
	}

	for _, food := range mealFoods {
		index, ok := mealIndex[food.MealID]
		if !ok {
			continue
		}

		item := catalogue[food.FoodID]
		mealResponses[index].Foods = append(mealResponses[index].Foods, MealFoodResponse{
			ID:        food.ID,
			FoodID:    food.FoodID,
			Name:      item.Name,
			Quantity:  food.Quantity,
			Notes:     food.Notes,
			SortOrder: food.SortOrder,
			Nutrition: item.Nutrition,
		})
		mealResponses[index].Totals = mealResponses[index].Totals.Add(item.Nutrition)
	}

	var totals rules.Nutrition
	for _, meal := range mealResponses {
		totals = totals.Add(meal.Totals)
	}

	return PlanDetailResponse{
		Plan:   toPlanResponse(plan),
		Meals:  mealResponses,
		Totals: totals,
	}
}
