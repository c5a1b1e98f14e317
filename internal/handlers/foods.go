package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/repository"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

type FoodHandler struct {
	Foods *repository.FoodRepository
}

// NewFoodHandler создает обработчик каталога продуктов.
func NewFoodHandler(foods *repository.FoodRepository) *FoodHandler {
	return &FoodHandler{Foods: foods}
}

type NutritionRequest struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fiber    float64 `json:"fiber" validate:"gte=0"`
}

type FoodRequest struct {
	Name              string           `json:"name" validate:"required,max=200"`
	ServingSize       string           `json:"serving_size" validate:"max=100"`
	Nutrition         NutritionRequest `json:"nutrition"`
	VataEffect        string           `json:"vata_effect" validate:"omitempty,dosha_effect"`
	PittaEffect       string           `json:"pitta_effect" validate:"omitempty,dosha_effect"`
	KaphaEffect       string           `json:"kapha_effect" validate:"omitempty,dosha_effect"`
	Potency           string           `json:"potency" validate:"omitempty,potency"`
	Taste             []string         `json:"taste" validate:"max=6,dive,max=50"`
	Quality           []string         `json:"quality" validate:"max=20,dive,max=50"`
	Contraindications []string         `json:"contraindications" validate:"max=50,dive,max=100"`
}

type FoodListResponse struct {
	Total int               `json:"total"`
	Foods []models.FoodItem `json:"foods"`
}

// List возвращает продукты каталога с поиском по названию.
func (h *FoodHandler) List(c echo.Context) error {
	limit, offset, err := parsePagination(c, 100, 500)
	if err != nil {
		return badRequest(c, err.Error())
	}

	search := c.QueryParam("q")
	foods, err := h.Foods.List(c.Request().Context(), search, limit, offset)
	if err != nil {
		return serverError(c)
	}

	total, err := h.Foods.Count(c.Request().Context(), search)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, FoodListResponse{Total: total, Foods: foods})
}

// Get возвращает продукт по идентификатору.
func (h *FoodHandler) Get(c echo.Context) error {
	foodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid food id")
	}

	food, err := h.Foods.GetByID(c.Request().Context(), foodID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "food not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, food)
}

// Create добавляет продукт в каталог.
func (h *FoodHandler) Create(c echo.Context) error {
	food, err := bindFood(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Foods.Create(c.Request().Context(), food)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "food with this name already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, created)
}

// Update обновляет продукт каталога.
func (h *FoodHandler) Update(c echo.Context) error {
	foodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid food id")
	}

	food, err := bindFood(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.Foods.Update(c.Request().Context(), foodID, food)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "food not found")
		}
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "food with this name already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, updated)
}

// Delete удаляет продукт, если он не используется в планах.
func (h *FoodHandler) Delete(c echo.Context) error {
	foodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid food id")
	}

	if err := h.Foods.Delete(c.Request().Context(), foodID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "food not found")
		}
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "food is used in diet plans")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func bindFood(c echo.Context) (rules.FoodItem, error) {
	var req FoodRequest
	if err := c.Bind(&req); err != nil {
		return rules.FoodItem{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return rules.FoodItem{}, errors.New("validation failed")
	}

	return toRuleFood(req)
}

func toRuleFood(req FoodRequest) (rules.FoodItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return rules.FoodItem{}, errors.New("name is required")
	}

	food := rules.FoodItem{
		Name:        name,
		ServingSize: strings.TrimSpace(req.ServingSize),
		Nutrition: rules.Nutrition{
			Calories: req.Nutrition.Calories,
			Protein:  req.Nutrition.Protein,
			Fat:      req.Nutrition.Fat,
			Carbs:    req.Nutrition.Carbs,
			Fiber:    req.Nutrition.Fiber,
		},
		Taste:             upperValues(req.Taste),
		Quality:           upperValues(req.Quality),
		Contraindications: trimValues(req.Contraindications),
	}

	effects := []struct {
		field string
		raw   string
		dst   *rules.DoshaEffect
	}{
		{"vata_effect", req.VataEffect, &food.VataEffect},
		{"pitta_effect", req.PittaEffect, &food.PittaEffect},
		{"kapha_effect", req.KaphaEffect, &food.KaphaEffect},
	}
	for _, effect := range effects {
		if strings.TrimSpace(effect.raw) == "" {
			*effect.dst = rules.EffectNeutral
			continue
		}
		parsed, ok := rules.ParseDoshaEffect(effect.raw)
		if !ok {
			return rules.FoodItem{}, errors.New("invalid " + effect.field)
		}
		*effect.dst = parsed
	}

	food.Potency = rules.PotencyNeutral
	if strings.TrimSpace(req.Potency) != "" {
		parsed, ok := rules.ParsePotency(req.Potency)
		if !ok {
			return rules.FoodItem{}, errors.New("invalid potency")
		}
		food.Potency = parsed
	}

	return food, nil
}

func upperValues(values []string) []string {
	result := trimValues(values)
	for i, value := range result {
		result[i] = strings.ToUpper(value)
	}
	return result
}
