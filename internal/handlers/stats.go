package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/repository"
)

type StatsHandler struct {
	Stats *repository.StatsRepository
}

// NewStatsHandler создает обработчик статистики.
func NewStatsHandler(stats *repository.StatsRepository) *StatsHandler {
	return &StatsHandler{Stats: stats}
}

type OverviewResponse struct {
	Patients       int `json:"patients"`
	TotalPlans     int `json:"total_plans"`
	ActivePlans    int `json:"active_plans"`
	DraftPlans     int `json:"draft_plans"`
	GeneratedPlans int `json:"generated_plans"`
}

type DoshaDistributionItem struct {
	Dosha string `json:"dosha"`
	Plans int    `json:"plans"`
}

type MonthlyPlansItem struct {
	Month     string `json:"month"`
	Plans     int    `json:"plans"`
	Generated int    `json:"generated"`
}

// Overview возвращает сводную статистику по пациентам и планам.
func (h *StatsHandler) Overview(c echo.Context) error {
	scope, err := statsScope(c)
	if err != nil {
		return writeError(c, err)
	}

	stats, err := h.Stats.Overview(c.Request().Context(), scope)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, OverviewResponse{
		Patients:       stats.Patients,
		TotalPlans:     stats.TotalPlans,
		ActivePlans:    stats.ActivePlans,
		DraftPlans:     stats.DraftPlans,
		GeneratedPlans: stats.GeneratedPlans,
	})
}

// Doshas возвращает распределение планов по ведущей доше.
func (h *StatsHandler) Doshas(c echo.Context) error {
	scope, err := statsScope(c)
	if err != nil {
		return writeError(c, err)
	}

	items, err := h.Stats.DoshaDistribution(c.Request().Context(), scope)
	if err != nil {
		return serverError(c)
	}

	response := make([]DoshaDistributionItem, 0, len(items))
	for _, item := range items {
		response = append(response, DoshaDistributionItem{Dosha: item.Dosha, Plans: item.Plans})
	}

	return c.JSON(http.StatusOK, map[string][]DoshaDistributionItem{"doshas": response})
}

// Monthly возвращает количество планов по месяцам.
func (h *StatsHandler) Monthly(c echo.Context) error {
	scope, err := statsScope(c)
	if err != nil {
		return writeError(c, err)
	}

	months := 6
	if raw := c.QueryParam("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid months")
		}
		if parsed > 24 {
			parsed = 24
		}
		months = parsed
	}

	items, err := h.Stats.MonthlyPlans(c.Request().Context(), scope, months)
	if err != nil {
		return serverError(c)
	}

	response := make([]MonthlyPlansItem, 0, len(items))
	for _, item := range items {
		response = append(response, MonthlyPlansItem{
			Month:     item.Month.Format("2006-01"),
			Plans:     item.Plans,
			Generated: item.Generated,
		})
	}

	return c.JSON(http.StatusOK, map[string][]MonthlyPlansItem{"months": response})
}

// statsScope ограничивает статистику планами автора, администраторы видят все.
func statsScope(c echo.Context) (*uuid.UUID, error) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return nil, newAPIError(http.StatusUnauthorized, "unauthorized")
	}

	role, _ := auth.RoleFromContext(c)
	if auth.HasRole(role, models.AdminRoles...) {
		return nil, nil
	}
	return &userID, nil
}
