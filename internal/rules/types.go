package rules

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Dosha string

type DoshaEffect string

type Potency string

const (
	Vata  Dosha = "vata"
	Pitta Dosha = "pitta"
	Kapha Dosha = "kapha"

	EffectPacifies   DoshaEffect = "PACIFIES"
	EffectNeutral    DoshaEffect = "NEUTRAL"
	EffectAggravates DoshaEffect = "AGGRAVATES"

	PotencyHeating Potency = "HEATING"
	PotencyCooling Potency = "COOLING"
	PotencyNeutral Potency = "NEUTRAL"
)

// Doshas перечисляет доши в порядке объявления; этот порядок разрешает ничьи.
var Doshas = []Dosha{Vata, Pitta, Kapha}

// ParseDosha разбирает название доши без учета регистра.
func ParseDosha(value string) (Dosha, bool) {
	switch Dosha(strings.ToLower(strings.TrimSpace(value))) {
	case Vata:
		return Vata, true
	case Pitta:
		return Pitta, true
	case Kapha:
		return Kapha, true
	default:
		return "", false
	}
}

// ParseDoshaEffect разбирает влияние продукта на дошу.
func ParseDoshaEffect(value string) (DoshaEffect, bool) {
	switch DoshaEffect(strings.ToUpper(strings.TrimSpace(value))) {
	case EffectPacifies:
		return EffectPacifies, true
	case EffectNeutral:
		return EffectNeutral, true
	case EffectAggravates:
		return EffectAggravates, true
	default:
		return "", false
	}
}

// ParsePotency разбирает потенцию (вирья) продукта.
func ParsePotency(value string) (Potency, bool) {
	switch Potency(strings.ToUpper(strings.TrimSpace(value))) {
	case PotencyHeating:
		return PotencyHeating, true
	case PotencyCooling:
		return PotencyCooling, true
	case PotencyNeutral:
		return PotencyNeutral, true
	default:
		return "", false
	}
}

type Prakriti struct {
	Vata  float64 `json:"vata" validate:"gte=0"`
	Pitta float64 `json:"pitta" validate:"gte=0"`
	Kapha float64 `json:"kapha" validate:"gte=0"`
}

// Score возвращает балл указанной доши.
func (p Prakriti) Score(d Dosha) float64 {
	switch d {
	case Vata:
		return p.Vata
	case Pitta:
		return p.Pitta
	case Kapha:
		return p.Kapha
	default:
		return 0
	}
}

func (p Prakriti) Total() float64 {
	return p.Vata + p.Pitta + p.Kapha
}

type PatientProfile struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Prakriti          *Prakriti `json:"prakriti" validate:"required"`
	Goals             []string  `json:"goals"`
	Allergies         []string  `json:"allergies"`
	ChronicConditions []string  `json:"chronic_conditions"`
}

type Nutrition struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Fat      float64 `json:"fat" yaml:"fat"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fiber    float64 `json:"fiber" yaml:"fiber"`
}

// Add складывает пищевую ценность поэлементно.
func (n Nutrition) Add(other Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + other.Calories,
		Protein:  n.Protein + other.Protein,
		Fat:      n.Fat + other.Fat,
		Carbs:    n.Carbs + other.Carbs,
		Fiber:    n.Fiber + other.Fiber,
	}
}

type FoodItem struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	ServingSize       string      `json:"serving_size,omitempty"`
	Nutrition         Nutrition   `json:"nutrition"`
	VataEffect        DoshaEffect `json:"vata_effect"`
	PittaEffect       DoshaEffect `json:"pitta_effect"`
	KaphaEffect       DoshaEffect `json:"kapha_effect"`
	Potency           Potency     `json:"potency"`
	Taste             []string    `json:"taste"`
	Quality           []string    `json:"quality"`
	Contraindications []string    `json:"contraindications"`
}

// Effect возвращает влияние продукта на дошу.
func (f FoodItem) Effect(d Dosha) DoshaEffect {
	switch d {
	case Vata:
		return f.VataEffect
	case Pitta:
		return f.PittaEffect
	case Kapha:
		return f.KaphaEffect
	default:
		return EffectNeutral
	}
}

// HasQuality проверяет наличие качества (гуны) без учета регистра.
func (f FoodItem) HasQuality(quality string) bool {
	return containsFold(f.Quality, quality)
}

// HasTaste проверяет наличие вкуса (расы) без учета регистра.
func (f FoodItem) HasTaste(taste string) bool {
	return containsFold(f.Taste, taste)
}

type MealSlot struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

type MealFood struct {
	Food     FoodItem `json:"food"`
	Quantity string   `json:"quantity"`
	Notes    string   `json:"notes,omitempty"`
}

type MealAssignment struct {
	Name      string     `json:"name"`
	Time      string     `json:"time"`
	Foods     []MealFood `json:"foods"`
	Rationale string     `json:"rationale"`
	Totals    Nutrition  `json:"totals"`
}

type Rationale struct {
	Ayurvedic   string `json:"ayurvedic"`
	Nutritional string `json:"nutritional"`
	Lifestyle   string `json:"lifestyle"`
}

type Exclusion struct {
	FoodID   string `json:"food_id,omitempty"`
	FoodName string `json:"food_name"`
	Reason   string `json:"reason"`
}

type DietPlan struct {
	ID              uuid.UUID        `json:"id"`
	PatientID       string           `json:"patient_id"`
	PatientName     string           `json:"patient_name"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
	DominantDosha   Dosha            `json:"dominant_dosha,omitempty"`
	Assessment      Assessment       `json:"assessment"`
	Meals           []MealAssignment `json:"meals"`
	Totals          Nutrition        `json:"totals"`
	Rationale       Rationale        `json:"rationale"`
	Warnings        []string         `json:"warnings"`
	Recommendations []string         `json:"recommendations"`
	Excluded        []Exclusion      `json:"excluded_foods"`
	SuitableFoods   int              `json:"suitable_foods"`
}

func containsFold(values []string, target string) bool {
	target = strings.TrimSpace(target)
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), target) {
			return true
		}
	}
	return false
}
