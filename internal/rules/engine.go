package rules

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PlanDays is the fixed length of a generated plan.
const PlanDays = 30

var ErrInvalidInput = errors.New("invalid input")

var (
	validate      = validator.New()
	planNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ayur-diet-planner/diet-plan"))
)

// Validate проверяет форму входного профиля пациента.
func Validate(patient PatientProfile) error {
	if err := validate.Struct(patient); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			parts := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(parts, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for _, d := range Doshas {
		score := patient.Prakriti.Score(d)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return fmt.Errorf("%w: %s score must be a finite number", ErrInvalidInput, d)
		}
	}

	return nil
}

// GeneratePlan строит план питания по профилю пациента и каталогу продуктов.
// Функция чистая: дата генерации передается явно, повторный вызов с теми же
// аргументами дает идентичный результат.
func GeneratePlan(patient PatientProfile, catalogue []FoodItem, generatedAt time.Time) (DietPlan, error) {
	if err := Validate(patient); err != nil {
		return DietPlan{}, err
	}

	catalogue, err := NormalizeCatalogue(catalogue)
	if err != nil {
		return DietPlan{}, err
	}

	primary, _ := PrimaryDosha(*patient.Prakriti)
	goals := cleanGoals(patient.Goals)

	suitable, excluded := FilterFoods(patient, primary, catalogue)
	meals := AssembleMeals(suitable)

	var totals Nutrition
	for _, meal := range meals {
		totals = totals.Add(meal.Totals)
	}

	warnings, recommendations := buildAdvice(patient, primary)

	start := startOfDay(generatedAt)
	return DietPlan{
		ID:              planID(patient, catalogue, start),
		PatientID:       patient.ID,
		PatientName:     patient.Name,
		Name:            planName(patient.Name),
		Description:     planDescription(primary, goals),
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, PlanDays),
		DominantDosha:   primary,
		Assessment:      Assess(*patient.Prakriti),
		Meals:           meals,
		Totals:          totals,
		Rationale:       buildRationale(primary, goals),
		Warnings:        warnings,
		Recommendations: recommendations,
		Excluded:        excluded,
		SuitableFoods:   len(suitable),
	}, nil
}

// planID выводится из всего входа генерации.
func planID(patient PatientProfile, catalogue []FoodItem, start time.Time) uuid.UUID {
	key := fmt.Appendf(nil, "%s|%s|%s|%v|%q|%q|%q",
		patient.ID, patient.Name, start.Format("2006-01-02"), *patient.Prakriti,
		patient.Goals, patient.Allergies, patient.ChronicConditions)
	for _, food := range catalogue {
		key = fmt.Appendf(key, "|%v", food)
	}
	return uuid.NewSHA1(planNamespace, key)
}

func startOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
