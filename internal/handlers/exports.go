package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	exportTypeMeals  = "meals"
	exportTypeAdvice = "advice"
)

const timeLayout = time.RFC3339

// ExportJSON выгружает план питания в JSON-файл.
func (h *PlanHandler) ExportJSON(c echo.Context) error {
	plan, err := loadPlan(c, h.Plans, h.Patients, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	response, err := buildPlanDetailResponse(c.Request().Context(), h.Plans, h.Foods, plan)
	if err != nil {
		return serverError(c)
	}

	filename := "diet-plan-" + plan.ID.String() + ".json"
	c.Response().Header().Set(echo.HeaderContentType, "application/json")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, response)
}

// ExportCSV выгружает продукты плана или рекомендации в CSV-файл.
func (h *PlanHandler) ExportCSV(c echo.Context) error {
	plan, err := loadPlan(c, h.Plans, h.Patients, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	exportType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if exportType == "" {
		exportType = exportTypeMeals
	}

	response, err := buildPlanDetailResponse(c.Request().Context(), h.Plans, h.Foods, plan)
	if err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch exportType {
	case exportTypeMeals:
		if err := writeMealsCSV(writer, response); err != nil {
			return serverError(c)
		}
	case exportTypeAdvice:
		if err := writeAdviceCSV(writer, response); err != nil {
			return serverError(c)
		}
	default:
		return badRequest(c, "invalid export type")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "diet-plan-" + plan.ID.String() + "-" + exportType + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func writeMealsCSV(writer *csv.Writer, response PlanDetailResponse) error {
	header := []string{
		"plan_id",
		"plan_name",
		"meal",
		"time",
		"food_id",
		"food",
		"quantity",
		"calories",
		"protein",
		"fat",
		"carbs",
		"fiber",
		"notes",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, meal := range response.Meals {
		for _, food := range meal.Foods {
			record := []string{
				response.Plan.ID.String(),
				response.Plan.Name,
				meal.Name,
				meal.Time,
				food.FoodID.String(),
				food.Name,
				food.Quantity,
				formatFloat(food.Nutrition.Calories),
				formatFloat(food.Nutrition.Protein),
				formatFloat(food.Nutrition.Fat),
				formatFloat(food.Nutrition.Carbs),
				formatFloat(food.Nutrition.Fiber),
				food.Notes,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeAdviceCSV(writer *csv.Writer, response PlanDetailResponse) error {
	if err := writer.Write([]string{"plan_id", "plan_name", "kind", "text"}); err != nil {
		return err
	}

	rows := make([][2]string, 0, len(response.Plan.Warnings)+len(response.Plan.Recommendations)+3)
	for _, warning := range response.Plan.Warnings {
		rows = append(rows, [2]string{"warning", warning})
	}
	for _, recommendation := range response.Plan.Recommendations {
		rows = append(rows, [2]string{"recommendation", recommendation})
	}
	rationale := response.Plan.Rationale
	for _, part := range [][2]string{
		{"rationale_ayurvedic", rationale.Ayurvedic},
		{"rationale_nutritional", rationale.Nutritional},
		{"rationale_lifestyle", rationale.Lifestyle},
	} {
		if part[1] != "" {
			rows = append(rows, part)
		}
	}

	for _, row := range rows {
		if err := writer.Write([]string{response.Plan.ID.String(), response.Plan.Name, row[0], row[1]}); err != nil {
			return err
		}
	}

	return nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
