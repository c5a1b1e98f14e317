package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/repository"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

type PatientHandler struct {
	Patients    *repository.PatientRepository
	Assessments *repository.AssessmentRepository
}

// NewPatientHandler создает обработчик карточек пациентов.
func NewPatientHandler(patients *repository.PatientRepository, assessments *repository.AssessmentRepository) *PatientHandler {
	return &PatientHandler{Patients: patients, Assessments: assessments}
}

type PatientRequest struct {
	Name              string          `json:"name" validate:"required,max=200"`
	Email             *string         `json:"email" validate:"omitempty,email"`
	DateOfBirth       *string         `json:"date_of_birth"`
	Gender            *string         `json:"gender" validate:"omitempty,max=20"`
	UserID            *string         `json:"user_id" validate:"omitempty,uuid"`
	DietitianID       *string         `json:"dietitian_id" validate:"omitempty,uuid"`
	Prakriti          *rules.Prakriti `json:"prakriti"`
	Goals             []string        `json:"goals" validate:"max=20,dive,max=200"`
	Allergies         []string        `json:"allergies" validate:"max=50,dive,max=100"`
	ChronicConditions []string        `json:"chronic_conditions" validate:"max=50,dive,max=100"`
}

type AssessmentRequest struct {
	Answers []rules.Answer  `json:"answers" validate:"omitempty,max=50,dive"`
	Scores  *rules.Prakriti `json:"scores"`
}

type PatientResponse struct {
	models.Patient
	DominantDosha string            `json:"dominant_dosha,omitempty"`
	Assessment    *rules.Assessment `json:"assessment,omitempty"`
}

type AssessmentResponse struct {
	Assessment models.PrakritiAssessment `json:"assessment"`
	Result     rules.Assessment          `json:"result"`
}

// List возвращает пациентов. Пациент видит только свою карточку.
func (h *PatientHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	limit, offset, err := parsePagination(c, 50, 200)
	if err != nil {
		return badRequest(c, err.Error())
	}

	filter := repository.PatientFilter{Search: c.QueryParam("q")}
	if !isStaff(c) {
		filter.UserID = &userID
	} else if raw := strings.TrimSpace(c.QueryParam("dietitian_id")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid dietitian_id")
		}
		filter.DietitianID = &parsed
	}

	patients, err := h.Patients.List(c.Request().Context(), filter, limit, offset)
	if err != nil {
		return serverError(c)
	}

	response := make([]PatientResponse, 0, len(patients))
	for _, patient := range patients {
		response = append(response, toPatientResponse(patient))
	}

	return c.JSON(http.StatusOK, map[string][]PatientResponse{"patients": response})
}

// Create создает карточку пациента.
func (h *PatientHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	input, err := bindPatient(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if input.DietitianID == nil {
		if role, _ := auth.RoleFromContext(c); role == models.RoleDietitian {
			input.DietitianID = &userID
		}
	}

	patient, err := h.Patients.Create(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "patient already linked to this user")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid user or dietitian reference")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toPatientResponse(patient))
}

// Get возвращает карточку пациента.
func (h *PatientHandler) Get(c echo.Context) error {
	patient, err := loadPatient(c, h.Patients, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toPatientResponse(patient))
}

// Update обновляет карточку пациента.
func (h *PatientHandler) Update(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid patient id")
	}

	input, err := bindPatient(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	patient, err := h.Patients.Update(c.Request().Context(), patientID, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "patient not found")
		}
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "patient already linked to this user")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid user or dietitian reference")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toPatientResponse(patient))
}

// Delete удаляет карточку пациента.
func (h *PatientHandler) Delete(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid patient id")
	}

	if err := h.Patients.Delete(c.Request().Context(), patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "patient not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Assess рассчитывает пракрити по анкете или баллам и сохраняет оценку.
func (h *PatientHandler) Assess(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid patient id")
	}

	var req AssessmentRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	scores, err := assessmentScores(req)
	if err != nil {
		return unprocessable(c, err.Error())
	}

	if scores.Total() <= 0 {
		return unprocessable(c, "scores must not all be zero")
	}
	result := rules.Assess(scores)

	var answers json.RawMessage
	if len(req.Answers) > 0 {
		answers, err = json.Marshal(req.Answers)
		if err != nil {
			return serverError(c)
		}
	}

	assessment, err := h.Assessments.Create(c.Request().Context(), repository.AssessmentInput{
		PatientID:  patientID,
		AssessedBy: userID,
		Scores:     scores,
		Result:     result,
		Answers:    answers,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "patient not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, AssessmentResponse{Assessment: assessment, Result: result})
}

// ListAssessments возвращает историю оценок пракрити.
func (h *PatientHandler) ListAssessments(c echo.Context) error {
	patient, err := loadPatient(c, h.Patients, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	assessments, err := h.Assessments.ListByPatient(c.Request().Context(), patient.ID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, map[string][]models.PrakritiAssessment{"assessments": assessments})
}

// Questionnaire возвращает вопросы анкеты пракрити.
func (h *PatientHandler) Questionnaire(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]rules.Question{"questions": rules.Questionnaire()})
}

func assessmentScores(req AssessmentRequest) (rules.Prakriti, error) {
	switch {
	case len(req.Answers) > 0 && req.Scores != nil:
		return rules.Prakriti{}, errors.New("provide either answers or scores")
	case len(req.Answers) > 0:
		return rules.ScoreAnswers(req.Answers)
	case req.Scores != nil:
		if err := rules.Validate(rules.PatientProfile{Prakriti: req.Scores}); err != nil {
			return rules.Prakriti{}, err
		}
		return *req.Scores, nil
	default:
		return rules.Prakriti{}, errors.New("answers or scores are required")
	}
}

func bindPatient(c echo.Context) (repository.PatientInput, error) {
	var req PatientRequest
	if err := c.Bind(&req); err != nil {
		return repository.PatientInput{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return repository.PatientInput{}, errors.New("validation failed")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return repository.PatientInput{}, errors.New("name is required")
	}

	input := repository.PatientInput{
		Name:              name,
		Email:             normalizeName(req.Email),
		Gender:            normalizeName(req.Gender),
		Prakriti:          req.Prakriti,
		Goals:             trimValues(req.Goals),
		Allergies:         trimValues(req.Allergies),
		ChronicConditions: trimValues(req.ChronicConditions),
	}

	if req.Prakriti != nil {
		if err := rules.Validate(rules.PatientProfile{Prakriti: req.Prakriti}); err != nil {
			return repository.PatientInput{}, errors.New("invalid prakriti scores")
		}
	}

	if req.DateOfBirth != nil && strings.TrimSpace(*req.DateOfBirth) != "" {
		parsed, err := time.Parse(dateLayout, strings.TrimSpace(*req.DateOfBirth))
		if err != nil {
			return repository.PatientInput{}, errors.New("invalid date_of_birth format")
		}
		input.DateOfBirth = &parsed
	}

	var err error
	if input.UserID, err = parseOptionalUUID(req.UserID); err != nil {
		return repository.PatientInput{}, errors.New("invalid user_id")
	}
	if input.DietitianID, err = parseOptionalUUID(req.DietitianID); err != nil {
		return repository.PatientInput{}, errors.New("invalid dietitian_id")
	}

	return input, nil
}

func toPatientResponse(patient models.Patient) PatientResponse {
	response := PatientResponse{Patient: patient}
	if patient.Prakriti == nil {
		return response
	}

	if dosha, ok := rules.PrimaryDosha(*patient.Prakriti); ok {
		response.DominantDosha = string(dosha)
	}
	assessment := rules.Assess(*patient.Prakriti)
	response.Assessment = &assessment
	return response
}

func trimValues(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseOptionalUUID(value *string) (*uuid.UUID, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}

	parsed, err := uuid.Parse(strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
