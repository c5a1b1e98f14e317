package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/notifications"
	"example.com/ayur-diet-planner/backend/internal/repository"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

const dateLayout = "2006-01-02"

type PlanHandler struct {
	Plans    *repository.DietPlanRepository
	Foods    *repository.FoodRepository
	Patients *repository.PatientRepository
	Notifier *notifications.Hub
}

// NewPlanHandler создает обработчик планов питания.
func NewPlanHandler(plans *repository.DietPlanRepository, foods *repository.FoodRepository, patients *repository.PatientRepository, notifier *notifications.Hub) *PlanHandler {
	return &PlanHandler{Plans: plans, Foods: foods, Patients: patients, Notifier: notifier}
}

type PlanRequest struct {
	PatientID       string        `json:"patient_id" validate:"required,uuid"`
	Name            string        `json:"name" validate:"required,max=200"`
	Description     string        `json:"description" validate:"max=2000"`
	StartDate       string        `json:"start_date" validate:"required"`
	EndDate         string        `json:"end_date" validate:"required"`
	Status          string        `json:"status" validate:"omitempty,plan_status"`
	Warnings        []string      `json:"warnings" validate:"max=20,dive,max=500"`
	Recommendations []string      `json:"recommendations" validate:"max=30,dive,max=500"`
	Meals           []MealRequest `json:"meals" validate:"max=12,dive"`
}

type PlanUpdateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Status      string `json:"status" validate:"required,plan_status"`
}

type MealRequest struct {
	Name  string            `json:"name" validate:"required,max=100"`
	Time  string            `json:"time" validate:"max=50"`
	Notes string            `json:"notes" validate:"max=500"`
	Foods []MealFoodRequest `json:"foods" validate:"max=30,dive"`
}

type MealFoodRequest struct {
	FoodID   string `json:"food_id" validate:"required,uuid"`
	Quantity string `json:"quantity" validate:"max=100"`
	Notes    string `json:"notes" validate:"max=500"`
}

type PlanResponse struct {
	ID              uuid.UUID         `json:"id"`
	PatientID       uuid.UUID         `json:"patient_id"`
	CreatedBy       uuid.UUID         `json:"created_by"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	Status          models.PlanStatus `json:"status"`
	DominantDosha   *string           `json:"dominant_dosha,omitempty"`
	Rationale       rules.Rationale   `json:"rationale"`
	Warnings        []string          `json:"warnings"`
	Recommendations []string          `json:"recommendations"`
	IsGenerated     bool              `json:"is_generated"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type MealFoodResponse struct {
	ID        uuid.UUID       `json:"id"`
	FoodID    uuid.UUID       `json:"food_id"`
	Name      string          `json:"name"`
	Quantity  string          `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
	SortOrder int             `json:"sort_order"`
	Nutrition rules.Nutrition `json:"nutrition"`
}

type MealResponse struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Time      string             `json:"time"`
	Notes     string             `json:"notes"`
	SortOrder int                `json:"sort_order"`
	Foods     []MealFoodResponse `json:"foods"`
	Totals    rules.Nutrition    `json:"totals"`
}

type PlanDetailResponse struct {
	Plan   PlanResponse    `json:"plan"`
	Meals  []MealResponse  `json:"meals"`
	Totals rules.Nutrition `json:"totals"`
}

// List возвращает планы питания. Пациент видит только свои планы.
func (h *PlanHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	limit, offset, err := parsePagination(c, 50, 200)
	if err != nil {
		return badRequest(c, err.Error())
	}

	filter := repository.DietPlanFilter{}
	if !isStaff(c) {
		filter.PatientUserID = &userID
	}

	if raw := strings.TrimSpace(c.QueryParam("patient_id")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid patient_id")
		}
		filter.PatientID = &parsed
	}

	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		status, ok := models.ParsePlanStatus(strings.ToUpper(raw))
		if !ok {
			return badRequest(c, "invalid status")
		}
		filter.Status = &status
	}

	plans, err := h.Plans.List(c.Request().Context(), filter, limit, offset)
	if err != nil {
		return serverError(c)
	}

	total, err := h.Plans.Count(c.Request().Context(), filter)
	if err != nil {
		return serverError(c)
	}

	response := make([]PlanResponse, 0, len(plans))
	for _, plan := range plans {
		response = append(response, toPlanResponse(plan))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"total": total, "plans": response})
}

// Create создает план питания вручную.
func (h *PlanHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	patient, err := loadPatient(c, h.Patients, req.PatientID)
	if err != nil {
		return writeError(c, err)
	}

	input, err := toPlanInput(req, patient.ID, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	plan, err := h.Plans.CreateWithDetails(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid plan or unknown food")
		}
		return serverError(c)
	}

	response, err := buildPlanDetailResponse(c.Request().Context(), h.Plans, h.Foods, plan)
	if err != nil {
		return serverError(c)
	}

	publishPlanEvent(h.Notifier, planRecipients(userID, patient), notifications.EventPlanUpdated, plan)
	return c.JSON(http.StatusCreated, response)
}

// Get возвращает план с приемами пищи и пересчитанными итогами.
func (h *PlanHandler) Get(c echo.Context) error {
	plan, err := loadPlan(c, h.Plans, h.Patients, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	response, err := buildPlanDetailResponse(c.Request().Context(), h.Plans, h.Foods, plan)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, response)
}

// Update обновляет атрибуты плана питания.
func (h *PlanHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid plan id")
	}

	var req PlanUpdateRequest
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

	startDate, endDate, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return badRequest(c, err.Error())
	}

	plan, err := h.Plans.Update(c.Request().Context(), planID, repository.DietPlanUpdate{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      models.PlanStatus(strings.ToUpper(req.Status)),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "plan not found")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid plan")
		}
		return serverError(c)
	}

	h.notify(c.Request().Context(), userID, notifications.EventPlanUpdated, plan)
	return c.JSON(http.StatusOK, toPlanResponse(plan))
}

// Delete удаляет план питания.
func (h *PlanHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid plan id")
	}

	plan, err := h.Plans.GetByID(c.Request().Context(), planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "plan not found")
		}
		return serverError(c)
	}

	if err := h.Plans.Delete(c.Request().Context(), planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "plan not found")
		}
		return serverError(c)
	}

	h.notify(c.Request().Context(), userID, notifications.EventPlanDeleted, plan)
	return c.NoContent(http.StatusNoContent)
}

// Duplicate создает черновую копию плана питания.
func (h *PlanHandler) Duplicate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid plan id")
	}

	plan, err := h.Plans.Duplicate(c.Request().Context(), planID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "plan not found")
		}
		return serverError(c)
	}

	h.notify(c.Request().Context(), userID, notifications.EventPlanUpdated, plan)
	return c.JSON(http.StatusCreated, toPlanResponse(plan))
}

// notify рассылает событие автору изменения и пациенту, привязанному к плану.
func (h *PlanHandler) notify(ctx context.Context, actor uuid.UUID, eventType notifications.EventType, plan models.DietPlan) {
	patient, err := h.Patients.GetByID(ctx, plan.PatientID)
	if err != nil {
		publishPlanEvent(h.Notifier, []uuid.UUID{actor}, eventType, plan)
		return
	}
	publishPlanEvent(h.Notifier, planRecipients(actor, patient), eventType, plan)
}

func toPlanInput(req PlanRequest, patientID, createdBy uuid.UUID) (repository.DietPlanInput, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return repository.DietPlanInput{}, errors.New("name is required")
	}

	startDate, endDate, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return repository.DietPlanInput{}, err
	}

	status := models.PlanStatusDraft
	if req.Status != "" {
		status = models.PlanStatus(strings.ToUpper(req.Status))
	}

	meals := make([]repository.MealInput, 0, len(req.Meals))
	for _, meal := range req.Meals {
		foods := make([]repository.MealFoodInput, 0, len(meal.Foods))
		for _, food := range meal.Foods {
			foodID, err := uuid.Parse(food.FoodID)
			if err != nil {
				return repository.DietPlanInput{}, errors.New("invalid food_id")
			}
			foods = append(foods, repository.MealFoodInput{
				FoodID:   foodID,
				Quantity: strings.TrimSpace(food.Quantity),
				Notes:    strings.TrimSpace(food.Notes),
			})
		}

		mealName := strings.TrimSpace(meal.Name)
		if mealName == "" {
			return repository.DietPlanInput{}, errors.New("meal name is required")
		}

		meals = append(meals, repository.MealInput{
			Name:  mealName,
			Time:  strings.TrimSpace(meal.Time),
			Notes: strings.TrimSpace(meal.Notes),
			Foods: foods,
		})
	}

	return repository.DietPlanInput{
		PatientID:       patientID,
		CreatedBy:       createdBy,
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		StartDate:       startDate,
		EndDate:         endDate,
		Status:          status,
		Warnings:        trimValues(req.Warnings),
		Recommendations: trimValues(req.Recommendations),
		Meals:           meals,
	}, nil
}

func parsePeriod(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, strings.TrimSpace(start))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start_date format")
	}

	endDate, err := time.Parse(dateLayout, strings.TrimSpace(end))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end_date format")
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, errors.New("end_date must be after start_date")
	}

	return startDate, endDate, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	seen := make(map[uuid.UUID]struct{}, len(values))

	for _, value := range values {
		parsed, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}

		if _, exists := seen[parsed]; exists {
			return nil, errors.New("duplicate id")
		}

		seen[parsed] = struct{}{}
		ids = append(ids, parsed)
	}

	return ids, nil
}

func toPlanResponse(plan models.DietPlan) PlanResponse {
	return PlanResponse{
		ID:              plan.ID,
		PatientID:       plan.PatientID,
		CreatedBy:       plan.CreatedBy,
		Name:            plan.Name,
		Description:     plan.Description,
		StartDate:       plan.StartDate.Format(dateLayout),
		EndDate:         plan.EndDate.Format(dateLayout),
		Status:          plan.Status,
		DominantDosha:   plan.DominantDosha,
		Rationale:       plan.Rationale,
		Warnings:        nonNilStrings(plan.Warnings),
		Recommendations: nonNilStrings(plan.Recommendations),
		IsGenerated:     plan.IsGenerated,
		CreatedAt:       plan.CreatedAt,
		UpdatedAt:       plan.UpdatedAt,
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
