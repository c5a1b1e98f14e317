package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/catalogue"
	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/notifications"
	"example.com/ayur-diet-planner/backend/internal/repository"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

type GeneratorHandler struct {
	Patients    *repository.PatientRepository
	Foods       *repository.FoodRepository
	Plans       *repository.DietPlanRepository
	Generations *repository.GenerationRepository
	Notifier    *notifications.Hub
	Now         func() time.Time
}

// NewGeneratorHandler создает обработчик генератора планов питания.
func NewGeneratorHandler(patients *repository.PatientRepository, foods *repository.FoodRepository, plans *repository.DietPlanRepository, generations *repository.GenerationRepository, notifier *notifications.Hub) *GeneratorHandler {
	return &GeneratorHandler{
		Patients:    patients,
		Foods:       foods,
		Plans:       plans,
		Generations: generations,
		Notifier:    notifier,
		Now:         time.Now,
	}
}

type PreviewRequest struct {
	Patient   rules.PatientProfile `json:"patient"`
	Catalogue []rules.FoodItem     `json:"catalogue"`
}

type GeneratedPlanResponse struct {
	PlanDetailResponse
	Assessment    rules.Assessment  `json:"assessment"`
	Excluded      []rules.Exclusion `json:"excluded_foods"`
	SuitableFoods int               `json:"suitable_foods"`
}

// Preview строит план по переданному профилю без сохранения.
func (h *GeneratorHandler) Preview(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	// Профиль проверяет сам генератор, ошибки формы отдаются как 422.
	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	foods := req.Catalogue
	if len(foods) == 0 {
		var err error
		foods, err = h.storeCatalogue(c.Request().Context())
		if err != nil {
			return serverError(c)
		}
	}

	plan, err := rules.GeneratePlan(req.Patient, foods, h.Now())
	h.logGeneration(c.Request().Context(), repository.GenerationLog{
		UserID:        userID,
		Mode:          repository.GenerationModePreview,
		CatalogueSize: len(foods),
	}, req.Patient, plan, err)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidInput) {
			return unprocessable(c, err.Error())
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, plan)
}

// GenerateForPatient строит план по карточке пациента и сохраняет его черновиком.
func (h *GeneratorHandler) GenerateForPatient(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	patient, err := loadPatient(c, h.Patients, c.Param("patientId"))
	if err != nil {
		return writeError(c, err)
	}
	if patient.Prakriti == nil {
		return unprocessable(c, "patient has no prakriti assessment")
	}

	ctx := c.Request().Context()
	stored, err := h.Foods.ListAll(ctx)
	if err != nil {
		return serverError(c)
	}
	foods := make([]rules.FoodItem, 0, len(stored))
	for _, food := range stored {
		foods = append(foods, food.Rule())
	}

	profile := patient.Profile()
	log := repository.GenerationLog{
		UserID:        userID,
		PatientID:     &patient.ID,
		Mode:          repository.GenerationModePatient,
		CatalogueSize: len(foods),
	}

	generated, err := rules.GeneratePlan(profile, foods, h.Now())
	if err != nil {
		h.logGeneration(ctx, log, profile, generated, err)
		if errors.Is(err, rules.ErrInvalidInput) {
			return unprocessable(c, err.Error())
		}
		return serverError(c)
	}

	input, err := toGeneratedPlanInput(generated, patient.ID, userID)
	if err != nil {
		h.logGeneration(ctx, log, profile, generated, err)
		return serverError(c)
	}

	plan, err := h.Plans.CreateWithDetails(ctx, input)
	if err != nil {
		h.logGeneration(ctx, log, profile, generated, err)
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "generated plan references unknown foods")
		}
		return serverError(c)
	}

	log.PlanID = &plan.ID
	h.logGeneration(ctx, log, profile, generated, nil)
	slog.Info("diet plan generated",
		slog.String("plan_id", plan.ID.String()),
		slog.String("patient_id", patient.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("suitable_foods", generated.SuitableFoods),
	)

	detail, err := buildPlanDetailResponse(ctx, h.Plans, h.Foods, plan)
	if err != nil {
		return serverError(c)
	}

	publishPlanEvent(h.Notifier, planRecipients(userID, patient), notifications.EventPlanGenerated, plan)
	return c.JSON(http.StatusCreated, GeneratedPlanResponse{
		PlanDetailResponse: detail,
		Assessment:         generated.Assessment,
		Excluded:           generated.Excluded,
		SuitableFoods:      generated.SuitableFoods,
	})
}

// storeCatalogue возвращает каталог из базы, а при пустой базе встроенный справочник.
func (h *GeneratorHandler) storeCatalogue(ctx context.Context) ([]rules.FoodItem, error) {
	stored, err := h.Foods.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return catalogue.Reference()
	}

	foods := make([]rules.FoodItem, 0, len(stored))
	for _, food := range stored {
		foods = append(foods, food.Rule())
	}
	return foods, nil
}

func (h *GeneratorHandler) logGeneration(ctx context.Context, log repository.GenerationLog, profile rules.PatientProfile, plan rules.DietPlan, err error) {
	if h.Generations == nil {
		return
	}

	log.RequestPayload, _ = json.Marshal(profile)
	log.Success = err == nil
	if plan.DominantDosha != "" {
		dosha := string(plan.DominantDosha)
		log.DominantDosha = &dosha
	}
	log.SuitableFoods = plan.SuitableFoods
	if err != nil {
		errMsg := err.Error()
		log.ErrorMessage = &errMsg
		slog.Warn("diet plan generation failed",
			slog.String("mode", log.Mode),
			slog.String("user_id", log.UserID.String()),
			slog.String("error", errMsg),
		)
	}

	if logErr := h.Generations.Log(ctx, log); logErr != nil {
		slog.Error("failed to log generation", slog.String("error", logErr.Error()))
	}
}

// toGeneratedPlanInput переводит результат генератора в черновик плана для сохранения.
func toGeneratedPlanInput(plan rules.DietPlan, patientID, createdBy uuid.UUID) (repository.DietPlanInput, error) {
	meals := make([]repository.MealInput, 0, len(plan.Meals))
	for _, meal := range plan.Meals {
		foods := make([]repository.MealFoodInput, 0, len(meal.Foods))
		for _, item := range meal.Foods {
			foodID, err := uuid.Parse(item.Food.ID)
			if err != nil {
				return repository.DietPlanInput{}, fmt.Errorf("food %q has no catalogue id: %w", item.Food.Name, err)
			}
			foods = append(foods, repository.MealFoodInput{
				FoodID:   foodID,
				Quantity: item.Quantity,
				Notes:    item.Notes,
			})
		}

		meals = append(meals, repository.MealInput{
			Name:  meal.Name,
			Time:  meal.Time,
			Notes: meal.Rationale,
			Foods: foods,
		})
	}

	var dominant *string
	if plan.DominantDosha != "" {
		value := string(plan.DominantDosha)
		dominant = &value
	}

	return repository.DietPlanInput{
		PatientID:       patientID,
		CreatedBy:       createdBy,
		Name:            plan.Name,
		Description:     plan.Description,
		StartDate:       plan.StartDate,
		EndDate:         plan.EndDate,
		Status:          models.PlanStatusDraft,
		DominantDosha:   dominant,
		Rationale:       plan.Rationale,
		Warnings:        plan.Warnings,
		Recommendations: plan.Recommendations,
		IsGenerated:     true,
		Meals:           meals,
	}, nil
}
