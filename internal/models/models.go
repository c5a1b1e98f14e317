package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"example.com/ayur-diet-planner/backend/internal/rules"
)

type Role string

type PlanStatus string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleClinicAdmin Role = "CLINIC_ADMIN"
	RoleDietitian   Role = "DIETITIAN"
	RoleAssistant   Role = "ASSISTANT"
	RolePatient     Role = "PATIENT"

	PlanStatusDraft     PlanStatus = "DRAFT"
	PlanStatusActive    PlanStatus = "ACTIVE"
	PlanStatusCompleted PlanStatus = "COMPLETED"
	PlanStatusCancelled PlanStatus = "CANCELLED"
)

// PlannerRoles может создавать, менять и генерировать планы питания.
var PlannerRoles = []Role{RoleDietitian, RoleClinicAdmin, RoleSuperAdmin}

// StaffRoles включает всех сотрудников клиники.
var StaffRoles = []Role{RoleAssistant, RoleDietitian, RoleClinicAdmin, RoleSuperAdmin}

// AdminRoles имеет доступ к админским эндпоинтам.
var AdminRoles = []Role{RoleClinicAdmin, RoleSuperAdmin}

// ParseRole разбирает роль пользователя.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleSuperAdmin, RoleClinicAdmin, RoleDietitian, RoleAssistant, RolePatient:
		return Role(value), true
	default:
		return "", false
	}
}

// ParsePlanStatus разбирает статус плана питания.
func ParsePlanStatus(value string) (PlanStatus, bool) {
	switch PlanStatus(value) {
	case PlanStatusDraft, PlanStatusActive, PlanStatusCompleted, PlanStatusCancelled:
		return PlanStatus(value), true
	default:
		return "", false
	}
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}

type Patient struct {
	ID                uuid.UUID       `json:"id"`
	UserID            *uuid.UUID      `json:"user_id,omitempty"`
	DietitianID       *uuid.UUID      `json:"dietitian_id,omitempty"`
	Name              string          `json:"name"`
	Email             *string         `json:"email,omitempty"`
	DateOfBirth       *time.Time      `json:"date_of_birth,omitempty"`
	Gender            *string         `json:"gender,omitempty"`
	Prakriti          *rules.Prakriti `json:"prakriti,omitempty"`
	Goals             []string        `json:"goals"`
	Allergies         []string        `json:"allergies"`
	ChronicConditions []string        `json:"chronic_conditions"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Profile переводит карточку пациента во входные данные генератора.
func (p Patient) Profile() rules.PatientProfile {
	return rules.PatientProfile{
		ID:                p.ID.String(),
		Name:              p.Name,
		Prakriti:          p.Prakriti,
		Goals:             p.Goals,
		Allergies:         p.Allergies,
		ChronicConditions: p.ChronicConditions,
	}
}

type PrakritiAssessment struct {
	ID           uuid.UUID       `json:"id"`
	PatientID    uuid.UUID       `json:"patient_id"`
	AssessedBy   uuid.UUID       `json:"assessed_by"`
	Scores       rules.Prakriti  `json:"scores"`
	Vata         int             `json:"vata"`
	Pitta        int             `json:"pitta"`
	Kapha        int             `json:"kapha"`
	Dominant     []string        `json:"dominant"`
	Constitution string          `json:"constitution"`
	Confidence   int             `json:"confidence"`
	Answers      json.RawMessage `json:"answers,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type FoodItem struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	ServingSize       string            `json:"serving_size"`
	Nutrition         rules.Nutrition   `json:"nutrition"`
	VataEffect        rules.DoshaEffect `json:"vata_effect"`
	PittaEffect       rules.DoshaEffect `json:"pitta_effect"`
	KaphaEffect       rules.DoshaEffect `json:"kapha_effect"`
	Potency           rules.Potency     `json:"potency"`
	Taste             []string          `json:"taste"`
	Quality           []string          `json:"quality"`
	Contraindications []string          `json:"contraindications"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Rule переводит запись каталога в продукт генератора.
func (f FoodItem) Rule() rules.FoodItem {
	return rules.FoodItem{
		ID:                f.ID.String(),
		Name:              f.Name,
		ServingSize:       f.ServingSize,
		Nutrition:         f.Nutrition,
		VataEffect:        f.VataEffect,
		PittaEffect:       f.PittaEffect,
		KaphaEffect:       f.KaphaEffect,
		Potency:           f.Potency,
		Taste:             f.Taste,
		Quality:           f.Quality,
		Contraindications: f.Contraindications,
	}
}

type DietPlan struct {
	ID              uuid.UUID       `json:"id"`
	PatientID       uuid.UUID       `json:"patient_id"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	Status          PlanStatus      `json:"status"`
	DominantDosha   *string         `json:"dominant_dosha,omitempty"`
	Rationale       rules.Rationale `json:"rationale"`
	Warnings        []string        `json:"warnings"`
	Recommendations []string        `json:"recommendations"`
	IsGenerated     bool            `json:"is_generated"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type DietMeal struct {
	ID        uuid.UUID `json:"id"`
	PlanID    uuid.UUID `json:"plan_id"`
	Name      string    `json:"name"`
	Time      string    `json:"time"`
	Notes     string    `json:"notes"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

type MealFood struct {
	ID        uuid.UUID `json:"id"`
	MealID    uuid.UUID `json:"meal_id"`
	FoodID    uuid.UUID `json:"food_id"`
	Quantity  string    `json:"quantity"`
	Notes     string    `json:"notes"`
	SortOrder int       `json:"sort_order"`
}
