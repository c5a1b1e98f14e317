package rules

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DominantThreshold is the minimum share of the total (in percent) a dosha
// needs to be counted as dominant.
const DominantThreshold = 30

const Tridoshic = "tridoshic"

type Assessment struct {
	Vata            int      `json:"vata"`
	Pitta           int      `json:"pitta"`
	Kapha           int      `json:"kapha"`
	Dominant        []Dosha  `json:"dominant"`
	Constitution    string   `json:"constitution,omitempty"`
	Confidence      int      `json:"confidence"`
	Description     string   `json:"description,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Percent возвращает процент доши в оценке.
func (a Assessment) Percent(d Dosha) int {
	switch d {
	case Vata:
		return a.Vata
	case Pitta:
		return a.Pitta
	case Kapha:
		return a.Kapha
	default:
		return 0
	}
}

// PrimaryDosha возвращает единственную доминирующую дошу с наибольшим баллом.
// Используется для фильтрации продуктов. При нулевых баллах доши нет.
func PrimaryDosha(p Prakriti) (Dosha, bool) {
	var best Dosha
	bestScore := 0.0
	for _, d := range Doshas {
		if score := p.Score(d); score > bestScore {
			best, bestScore = d, score
		}
	}
	return best, bestScore > 0
}

// Assess рассчитывает проценты, доминирующие доши и конституцию.
func Assess(p Prakriti) Assessment {
	result := Assessment{Dominant: []Dosha{}}

	total := p.Total()
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return result
	}

	result.Vata = roundPercent(p.Vata, total)
	result.Pitta = roundPercent(p.Pitta, total)
	result.Kapha = roundPercent(p.Kapha, total)

	ordered := append([]Dosha(nil), Doshas...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return result.Percent(ordered[i]) > result.Percent(ordered[j])
	})

	for _, d := range ordered {
		if result.Percent(d) >= DominantThreshold {
			result.Dominant = append(result.Dominant, d)
		}
		if pct := result.Percent(d); pct > result.Confidence {
			result.Confidence = pct
		}
	}

	result.Constitution = constitutionName(result.Dominant)
	if profile, ok := DescribeConstitution(result.Constitution); ok {
		result.Description = profile.Description
		result.Recommendations = append([]string(nil), profile.Recommendations...)
	}

	return result
}

func constitutionName(dominant []Dosha) string {
	switch len(dominant) {
	case 0:
		return ""
	case 1:
		return string(dominant[0])
	case 2:
		names := []string{string(dominant[0]), string(dominant[1])}
		sort.Strings(names)
		return strings.Join(names, "-")
	default:
		return Tridoshic
	}
}

// half-up, like the questionnaire results shown to patients
func roundPercent(score, total float64) int {
	return int(math.Floor(score/total*100 + 0.5))
}

type ConstitutionProfile struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
}

var constitutionProfiles = map[string]ConstitutionProfile{
	"vata": {
		Title:       "Vata Dominant",
		Description: "You have a Vata-dominant constitution. Vata is the energy of movement, composed of air and ether elements.",
		Recommendations: []string{
			"Follow a regular daily routine",
			"Eat warm, cooked, nourishing foods",
			"Practice calming activities like meditation",
			"Keep warm and avoid cold, raw foods",
			"Use warm oils for self-massage (abhyanga)",
			"Get adequate rest and avoid overstimulation",
		},
	},
	"pitta": {
		Title:       "Pitta Dominant",
		Description: "You have a Pitta-dominant constitution. Pitta is the energy of transformation, composed of fire and water elements.",
		Recommendations: []string{
			"Eat cooling, non-spicy foods",
			"Avoid excessive heat and sun exposure",
			"Practice cooling activities like swimming",
			"Learn to manage anger and stress",
			"Take time to relax and unwind",
			"Avoid competitive situations when possible",
		},
	},
	"kapha": {
		Title:       "Kapha Dominant",
		Description: "You have a Kapha-dominant constitution. Kapha is the energy of structure, composed of earth and water elements.",
		Recommendations: []string{
			"Eat light, warm, spicy foods",
			"Exercise regularly and vigorously",
			"Stay mentally stimulated and active",
			"Avoid heavy, oily foods",
			"Keep warm and dry",
			"Practice detachment and let go of possessions",
		},
	},
	"pitta-vata": {
		Title:       "Vata-Pitta Constitution",
		Description: "You have a dual Vata-Pitta constitution. This combines the qualities of both doshas.",
		Recommendations: []string{
			"Balance routine with flexibility",
			"Eat warm, cooked, slightly cooling foods",
			"Practice both calming and cooling activities",
			"Manage stress through meditation and exercise",
			"Avoid extreme temperatures",
			"Maintain regular sleep patterns",
		},
	},
	"kapha-vata": {
		Title:       "Vata-Kapha Constitution",
		Description: "You have a dual Vata-Kapha constitution. This creates an interesting dynamic between movement and stability.",
		Recommendations: []string{
			"Establish a very regular routine",
			"Eat warm, light, stimulating foods",
			"Exercise regularly but moderately",
			"Stay warm and avoid damp conditions",
			"Practice both energizing and calming activities",
			"Get adequate rest but avoid oversleeping",
		},
	},
	"kapha-pitta": {
		Title:       "Pitta-Kapha Constitution",
		Description: "You have a dual Pitta-Kapha constitution. This combines transformation with structure.",
		Recommendations: []string{
			"Eat cooling, light, non-spicy foods",
			"Exercise regularly to maintain balance",
			"Practice both cooling and energizing activities",
			"Avoid heavy, oily foods",
			"Manage anger through cooling practices",
			"Stay mentally stimulated but avoid overwork",
		},
	},
	Tridoshic: {
		Title:       "Tridoshic Constitution",
		Description: "You have a balanced Tridoshic constitution. All three doshas are relatively equal, giving you adaptability.",
		Recommendations: []string{
			"Follow seasonal routines and diet",
			"Maintain balance in all activities",
			"Eat a variety of fresh, whole foods",
			"Exercise moderately and regularly",
			"Practice stress management techniques",
			"Listen to your body's needs",
		},
	},
}

// DescribeConstitution возвращает описание конституции по имени.
// Имена двойных конституций сортируются по алфавиту ("pitta-vata").
func DescribeConstitution(name string) (ConstitutionProfile, bool) {
	profile, ok := constitutionProfiles[strings.ToLower(strings.TrimSpace(name))]
	return profile, ok
}

type Question struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
}

var questionnaire = []Question{
	{ID: "physical_frame", Text: "How would you describe your body frame?", Category: "Physical", Weight: 1},
	{ID: "weight_gain", Text: "How easily do you gain weight?", Category: "Physical", Weight: 1},
	{ID: "skin_texture", Text: "What is your skin texture like?", Category: "Physical", Weight: 1},
	{ID: "hair_quality", Text: "How would you describe your hair?", Category: "Physical", Weight: 1},
	{ID: "appetite", Text: "How would you describe your appetite and digestion?", Category: "Physiological", Weight: 1.5},
	{ID: "bowel_movements", Text: "What are your bowel movements typically like?", Category: "Physiological", Weight: 1},
	{ID: "sleep_pattern", Text: "What is your sleep pattern like?", Category: "Physiological", Weight: 1.5},
	{ID: "energy_levels", Text: "How would you describe your energy levels throughout the day?", Category: "Physiological", Weight: 1},
	{ID: "stress_response", Text: "How do you typically respond to stress?", Category: "Mental", Weight: 1.5},
	{ID: "memory_learning", Text: "How would you describe your memory and learning ability?", Category: "Mental", Weight: 1},
	{ID: "social_behavior", Text: "How would you describe your social behavior?", Category: "Mental", Weight: 1},
	{ID: "temperature_preference", Text: "What is your temperature preference?", Category: "Environmental", Weight: 1},
}

// Questionnaire возвращает копию опросника пракрити.
func Questionnaire() []Question {
	return append([]Question(nil), questionnaire...)
}

type Answer struct {
	QuestionID string `json:"question_id" validate:"required"`
	Dosha      string `json:"dosha" validate:"required"`
}

// ScoreAnswers суммирует веса ответов по дошам.
// Неизвестные вопросы пропускаются, повторный ответ заменяет предыдущий.
func ScoreAnswers(answers []Answer) (Prakriti, error) {
	weights := make(map[string]float64, len(questionnaire))
	for _, q := range questionnaire {
		weights[q.ID] = q.Weight
	}

	chosen := make(map[string]Dosha, len(answers))
	order := make([]string, 0, len(answers))
	for _, answer := range answers {
		id := strings.TrimSpace(answer.QuestionID)
		if _, known := weights[id]; !known {
			continue
		}

		d, ok := ParseDosha(answer.Dosha)
		if !ok {
			return Prakriti{}, fmt.Errorf("%w: unknown dosha %q for question %s", ErrInvalidInput, answer.Dosha, id)
		}

		if _, seen := chosen[id]; !seen {
			order = append(order, id)
		}
		chosen[id] = d
	}

	var scores Prakriti
	for _, id := range order {
		switch chosen[id] {
		case Vata:
			scores.Vata += weights[id]
		case Pitta:
			scores.Pitta += weights[id]
		case Kapha:
			scores.Kapha += weights[id]
		}
	}

	return scores, nil
}
