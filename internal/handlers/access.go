package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/repository"
)

// apiError несет HTTP-статус и сообщение для ответа клиенту.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return e.message
}

func newAPIError(status int, message string) error {
	return &apiError{status: status, message: message}
}

// writeError отдает apiError как JSON, остальные ошибки как 500.
func writeError(c echo.Context, err error) error {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.status, map[string]string{"error": apiErr.message})
	}
	return serverError(c)
}

func isStaff(c echo.Context) bool {
	role, ok := auth.RoleFromContext(c)
	return ok && auth.HasRole(role, models.StaffRoles...)
}

// canAccessPatient разрешает сотрудникам любые карточки, пациенту только свою.
func canAccessPatient(c echo.Context, patient models.Patient) bool {
	if isStaff(c) {
		return true
	}

	userID, ok := auth.UserIDFromContext(c)
	return ok && patient.UserID != nil && *patient.UserID == userID
}

// loadPatient возвращает доступную пользователю карточку пациента.
// Чужая карточка выглядит для пациента как отсутствующая.
func loadPatient(c echo.Context, patients *repository.PatientRepository, rawID string) (models.Patient, error) {
	patientID, err := uuid.Parse(rawID)
	if err != nil {
		return models.Patient{}, newAPIError(http.StatusBadRequest, "invalid patient id")
	}

	patient, err := patients.GetByID(c.Request().Context(), patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Patient{}, newAPIError(http.StatusNotFound, "patient not found")
		}
		return models.Patient{}, err
	}

	if !canAccessPatient(c, patient) {
		return models.Patient{}, newAPIError(http.StatusNotFound, "patient not found")
	}

	return patient, nil
}

// loadPlan возвращает план питания, если пользователь имеет доступ к его пациенту.
func loadPlan(c echo.Context, plans *repository.DietPlanRepository, patients *repository.PatientRepository, rawID string) (models.DietPlan, error) {
	planID, err := uuid.Parse(rawID)
	if err != nil {
		return models.DietPlan{}, newAPIError(http.StatusBadRequest, "invalid plan id")
	}

	plan, err := plans.GetByID(c.Request().Context(), planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.DietPlan{}, newAPIError(http.StatusNotFound, "plan not found")
		}
		return models.DietPlan{}, err
	}

	if isStaff(c) {
		return plan, nil
	}

	if _, err := loadPatient(c, patients, plan.PatientID.String()); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			return models.DietPlan{}, newAPIError(http.StatusNotFound, "plan not found")
		}
		return models.DietPlan{}, err
	}

	return plan, nil
}
