package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/notifications"
	"example.com/ayur-diet-planner/backend/internal/repository"
)

type MealHandler struct {
	Meals    *repository.MealRepository
	Plans    *repository.DietPlanRepository
	Patients *repository.PatientRepository
	Notifier *notifications.Hub
}

// NewMealHandler создает обработчик правки приемов пищи.
func NewMealHandler(meals *repository.MealRepository, plans *repository.DietPlanRepository, patients *repository.PatientRepository, notifier *notifications.Hub) *MealHandler {
	return &MealHandler{Meals: meals, Plans: plans, Patients: patients, Notifier: notifier}
}

type UpdateMealRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Time  string `json:"time" validate:"max=50"`
	Notes string `json:"notes" validate:"max=500"`
}

type AddMealFoodRequest struct {
	FoodID   string `json:"food_id" validate:"required,uuid"`
	Quantity string `json:"quantity" validate:"max=100"`
	Notes    string `json:"notes" validate:"max=500"`
}

type UpdateMealFoodRequest struct {
	Quantity string `json:"quantity" validate:"max=100"`
	Notes    string `json:"notes" validate:"max=500"`
}

type ReorderMealFoodsRequest struct {
	FoodIDs []string `json:"meal_food_ids" validate:"required,min=1"`
}

// UpdateMeal меняет название, время и заметки приема пищи.
func (h *MealHandler) UpdateMeal(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	mealID, err := uuid.Parse(c.Param("mealId"))
	if err != nil {
		return badRequest(c, "invalid meal id")
	}

	var req UpdateMealRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}

	meal, err := h.Meals.UpdateMeal(c.Request().Context(), mealID, name, strings.TrimSpace(req.Time), strings.TrimSpace(req.Notes))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "meal not found")
		}
		return serverError(c)
	}

	h.notifyPlanUpdate(c.Request().Context(), userID, meal.PlanID)
	return c.JSON(http.StatusOK, meal)
}

// AddFood добавляет продукт каталога в прием пищи.
func (h *MealHandler) AddFood(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	mealID, err := uuid.Parse(c.Param("mealId"))
	if err != nil {
		return badRequest(c, "invalid meal id")
	}

	var req AddMealFoodRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	foodID, err := uuid.Parse(req.FoodID)
	if err != nil {
		return badRequest(c, "invalid food_id")
	}

	food, err := h.Meals.AddFood(c.Request().Context(), mealID, foodID, strings.TrimSpace(req.Quantity), strings.TrimSpace(req.Notes))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "meal not found")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "unknown food")
		}
		return serverError(c)
	}

	h.notifyMealUpdate(c.Request().Context(), userID, mealID)
	return c.JSON(http.StatusCreated, food)
}

// UpdateFood меняет порцию продукта в приеме пищи.
func (h *MealHandler) UpdateFood(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	mealFoodID, err := uuid.Parse(c.Param("mealFoodId"))
	if err != nil {
		return badRequest(c, "invalid meal food id")
	}

	var req UpdateMealFoodRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	food, err := h.Meals.UpdateFood(c.Request().Context(), mealFoodID, strings.TrimSpace(req.Quantity), strings.TrimSpace(req.Notes))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "meal food not found")
		}
		return serverError(c)
	}

	h.notifyMealUpdate(c.Request().Context(), userID, food.MealID)
	return c.JSON(http.StatusOK, food)
}

// DeleteFood убирает продукт из приема пищи.
func (h *MealHandler) DeleteFood(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	mealFoodID, err := uuid.Parse(c.Param("mealFoodId"))
	if err != nil {
		return badRequest(c, "invalid meal food id")
	}

	planID, err := h.Meals.GetPlanIDByMealFoodID(c.Request().Context(), mealFoodID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "meal food not found")
		}
		return serverError(c)
	}

	if err := h.Meals.DeleteFood(c.Request().Context(), mealFoodID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "meal food not found")
		}
		return serverError(c)
	}

	h.notifyPlanUpdate(c.Request().Context(), userID, planID)
	return c.NoContent(http.StatusNoContent)
}

// ReorderFoods меняет порядок продуктов в приеме пищи.
func (h *MealHandler) ReorderFoods(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	mealID, err := uuid.Parse(c.Param("mealId"))
	if err != nil {
		return badRequest(c, "invalid meal id")
	}

	var req ReorderMealFoodsRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	foodIDs, err := parseUUIDs(req.FoodIDs)
	if err != nil {
		return badRequest(c, "invalid meal food ids")
	}

	if err := h.Meals.ReorderFoods(c.Request().Context(), mealID, foodIDs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "meal not found")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid food order")
		}
		return serverError(c)
	}

	h.notifyMealUpdate(c.Request().Context(), userID, mealID)
	return c.NoContent(http.StatusNoContent)
}

func (h *MealHandler) notifyMealUpdate(ctx context.Context, userID, mealID uuid.UUID) {
	planID, err := h.Meals.GetPlanIDByMealID(ctx, mealID)
	if err != nil {
		return
	}
	h.notifyPlanUpdate(ctx, userID, planID)
}

func (h *MealHandler) notifyPlanUpdate(ctx context.Context, userID, planID uuid.UUID) {
	if h.Notifier == nil {
		return
	}

	plan, err := h.Plans.GetByID(ctx, planID)
	if err != nil {
		return
	}

	recipients := []uuid.UUID{userID}
	if patient, err := h.Patients.GetByID(ctx, plan.PatientID); err == nil {
		recipients = planRecipients(userID, patient)
	}
	publishPlanEvent(h.Notifier, recipients, notifications.EventPlanUpdated, plan)
}
