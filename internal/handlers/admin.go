package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/repository"
)

type AdminHandler struct {
	Repo   *repository.AdminRepository
	Users  *repository.UserRepository
	Tokens *repository.RefreshTokenRepository
}

// NewAdminHandler создает обработчик админских эндпоинтов.
func NewAdminHandler(repo *repository.AdminRepository, users *repository.UserRepository, tokens *repository.RefreshTokenRepository) *AdminHandler {
	return &AdminHandler{Repo: repo, Users: users, Tokens: tokens}
}

type AdminUserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Name      *string     `json:"name,omitempty"`
	Role      models.Role `json:"role"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

type AdminUsersResponse struct {
	Total int                 `json:"total"`
	Users []AdminUserResponse `json:"users"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=SUPER_ADMIN CLINIC_ADMIN DIETITIAN ASSISTANT PATIENT"`
}

type AdminGenerationResponse struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	PatientID      *uuid.UUID      `json:"patient_id,omitempty"`
	PlanID         *uuid.UUID      `json:"plan_id,omitempty"`
	Mode           string          `json:"mode"`
	DominantDosha  *string         `json:"dominant_dosha,omitempty"`
	CatalogueSize  int             `json:"catalogue_size"`
	SuitableFoods  int             `json:"suitable_foods"`
	Success        bool            `json:"success"`
	ErrorMessage   *string         `json:"error_message,omitempty"`
	CreatedAt      string          `json:"created_at"`
	RequestPayload json.RawMessage `json:"request_payload,omitempty"`
}

type AdminGenerationsResponse struct {
	Total       int                       `json:"total"`
	Generations []AdminGenerationResponse `json:"generations"`
}

type AdminUsageDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AdminUsageResponse struct {
	Users             int             `json:"users"`
	Patients          int             `json:"patients"`
	Foods             int             `json:"foods"`
	Plans             int             `json:"plans"`
	Generations       int             `json:"generations"`
	GenerationSuccess int             `json:"generation_success"`
	GenerationFail    int             `json:"generation_fail"`
	GenerationsByDay  []AdminUsageDay `json:"generations_by_day"`
}

// ListUsers возвращает список пользователей для админки.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, offset, err := parsePagination(c, 50, 200)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var role *models.Role
	if raw := strings.TrimSpace(c.QueryParam("role")); raw != "" {
		parsed, ok := models.ParseRole(strings.ToUpper(raw))
		if !ok {
			return badRequest(c, "invalid role")
		}
		role = &parsed
	}

	users, err := h.Repo.ListUsers(c.Request().Context(), role, limit, offset)
	if err != nil {
		return serverError(c)
	}

	total, err := h.Repo.CountUsers(c.Request().Context(), role)
	if err != nil {
		return serverError(c)
	}

	response := make([]AdminUserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, AdminUserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      user.Role,
			CreatedAt: user.CreatedAt.Format(timeLayout),
			UpdatedAt: user.UpdatedAt.Format(timeLayout),
		})
	}

	return c.JSON(http.StatusOK, AdminUsersResponse{
		Total: total,
		Users: response,
	})
}

// UpdateUserRole меняет роль пользователя и завершает его сессии.
// Свою роль поменять нельзя.
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	actorID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	if userID == actorID {
		return forbidden(c)
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		return badRequest(c, "invalid role")
	}

	user, err := h.Users.UpdateRole(c.Request().Context(), userID, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "user not found")
		}
		return serverError(c)
	}

	revoked, err := h.Tokens.RevokeAllForUser(c.Request().Context(), user.ID)
	if err != nil {
		return serverError(c)
	}
	slog.Info("user role changed",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)),
		slog.String("changed_by", actorID.String()),
		slog.Int64("revoked_sessions", revoked),
	)

	return c.JSON(http.StatusOK, AdminUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(timeLayout),
		UpdatedAt: user.UpdatedAt.Format(timeLayout),
	})
}

// ListGenerations возвращает журнал запусков генератора с фильтрами.
func (h *AdminHandler) ListGenerations(c echo.Context) error {
	limit, offset, err := parsePagination(c, 50, 200)
	if err != nil {
		return badRequest(c, err.Error())
	}

	filter := repository.GenerationFilter{}
	if raw := strings.TrimSpace(c.QueryParam("user_id")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid user_id")
		}
		filter.UserID = &parsed
	}

	if raw := strings.TrimSpace(c.QueryParam("patient_id")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid patient_id")
		}
		filter.PatientID = &parsed
	}

	if raw := strings.TrimSpace(c.QueryParam("success")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "invalid success")
		}
		filter.Success = &parsed
	}

	if raw := strings.TrimSpace(c.QueryParam("mode")); raw != "" {
		if raw != repository.GenerationModePreview && raw != repository.GenerationModePatient {
			return badRequest(c, "invalid mode")
		}
		filter.Mode = &raw
	}

	includePayloads := false
	if raw := strings.TrimSpace(c.QueryParam("include_payloads")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "invalid include_payloads")
		}
		includePayloads = parsed
	}

	records, err := h.Repo.ListGenerations(c.Request().Context(), filter, limit, offset, includePayloads)
	if err != nil {
		return serverError(c)
	}

	total, err := h.Repo.CountGenerations(c.Request().Context(), filter)
	if err != nil {
		return serverError(c)
	}

	response := make([]AdminGenerationResponse, 0, len(records))
	for _, record := range records {
		item := AdminGenerationResponse{
			ID:            record.ID,
			UserID:        record.UserID,
			PatientID:     record.PatientID,
			PlanID:        record.PlanID,
			Mode:          record.Mode,
			DominantDosha: record.DominantDosha,
			CatalogueSize: record.CatalogueSize,
			SuitableFoods: record.SuitableFoods,
			Success:       record.Success,
			ErrorMessage:  record.ErrorMessage,
			CreatedAt:     record.CreatedAt.Format(timeLayout),
		}

		if includePayloads && len(record.RequestPayload) > 0 {
			item.RequestPayload = json.RawMessage(record.RequestPayload)
		}
		response = append(response, item)
	}

	return c.JSON(http.StatusOK, AdminGenerationsResponse{
		Total:       total,
		Generations: response,
	})
}

// Usage возвращает агрегированную статистику использования.
func (h *AdminHandler) Usage(c echo.Context) error {
	days := 7
	if raw := strings.TrimSpace(c.QueryParam("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid days")
		}
		if parsed > 30 {
			parsed = 30
		}
		days = parsed
	}

	stats, err := h.Repo.UsageStats(c.Request().Context(), days)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid days")
		}
		return serverError(c)
	}

	daysResponse := make([]AdminUsageDay, 0, len(stats.GenerationsByDay))
	for _, day := range stats.GenerationsByDay {
		daysResponse = append(daysResponse, AdminUsageDay{
			Date:  day.Day.Format(dateLayout),
			Count: day.Count,
		})
	}

	return c.JSON(http.StatusOK, AdminUsageResponse{
		Users:             stats.Users,
		Patients:          stats.Patients,
		Foods:             stats.Foods,
		Plans:             stats.Plans,
		Generations:       stats.Generations,
		GenerationSuccess: stats.GenerationSuccess,
		GenerationFail:    stats.GenerationFail,
		GenerationsByDay:  daysResponse,
	})
}

func parsePagination(c echo.Context, defaultLimit, maxLimit int) (int, int, error) {
	limit := defaultLimit
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, 0, errors.New("invalid limit")
		}
		if parsed > maxLimit {
			parsed = maxLimit
		}
		limit = parsed
	}

	offset := 0
	if raw := strings.TrimSpace(c.QueryParam("offset")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, errors.New("invalid offset")
		}
		offset = parsed
	}

	return limit, offset, nil
}
