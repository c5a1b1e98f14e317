package server

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator создает валидатор на базе go-playground/validator
// с тегами для перечислений предметной области.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("dosha_effect", func(fl validator.FieldLevel) bool {
		_, ok := rules.ParseDoshaEffect(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("potency", func(fl validator.FieldLevel) bool {
		_, ok := rules.ParsePotency(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("plan_status", func(fl validator.FieldLevel) bool {
		_, ok := models.ParsePlanStatus(strings.ToUpper(fl.Field().String()))
		return ok
	})

	return &CustomValidator{validator: v}
}

// Validate запускает проверку структуры по тегам.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
