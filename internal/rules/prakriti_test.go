package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAssess проверяет проценты, доминирующие доши и конституцию.
func TestAssess(t *testing.T) {
	tests := []struct {
		name         string
		prakriti     Prakriti
		percents     [3]int
		dominant     []Dosha
		constitution string
		confidence   int
	}{
		{"single", Prakriti{70, 20, 10}, [3]int{70, 20, 10}, []Dosha{Vata}, "vata", 70},
		{"dual sorted by share", Prakriti{35, 45, 20}, [3]int{35, 45, 20}, []Dosha{Pitta, Vata}, "pitta-vata", 45},
		{"tridoshic", Prakriti{1, 1, 1}, [3]int{33, 33, 33}, []Dosha{Vata, Pitta, Kapha}, Tridoshic, 33},
		{"rounding half up", Prakriti{1, 2, 0}, [3]int{33, 67, 0}, []Dosha{Pitta, Vata}, "pitta-vata", 67},
		{"kapha and vata", Prakriti{12, 3, 15}, [3]int{40, 10, 50}, []Dosha{Kapha, Vata}, "kapha-vata", 50},
		{"all zero", Prakriti{}, [3]int{0, 0, 0}, []Dosha{}, "", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Assess(tc.prakriti)
			assert.Equal(t, tc.percents, [3]int{got.Vata, got.Pitta, got.Kapha})
			assert.Equal(t, tc.dominant, got.Dominant)
			assert.Equal(t, tc.constitution, got.Constitution)
			assert.Equal(t, tc.confidence, got.Confidence)
		})
	}
}

// TestAssessDescription проверяет подстановку описания конституции.
func TestAssessDescription(t *testing.T) {
	got := Assess(Prakriti{Vata: 50, Pitta: 50})

	profile, ok := DescribeConstitution("pitta-vata")
	require.True(t, ok)
	assert.Equal(t, profile.Description, got.Description)
	assert.Len(t, got.Recommendations, 6)

	_, ok = DescribeConstitution("unknown")
	assert.False(t, ok)
}

// TestPrimaryDosha проверяет выбор основной доши и разрешение ничьих.
func TestPrimaryDosha(t *testing.T) {
	d, ok := PrimaryDosha(Prakriti{Vata: 40, Pitta: 40, Kapha: 20})
	assert.True(t, ok)
	assert.Equal(t, Vata, d)

	d, ok = PrimaryDosha(Prakriti{Vata: 10, Pitta: 30, Kapha: 30})
	assert.True(t, ok)
	assert.Equal(t, Pitta, d)

	_, ok = PrimaryDosha(Prakriti{})
	assert.False(t, ok)
}

// TestScoreAnswers проверяет подсчет весов опросника.
func TestScoreAnswers(t *testing.T) {
	scores, err := ScoreAnswers([]Answer{
		{QuestionID: "physical_frame", Dosha: "vata"},
		{QuestionID: "appetite", Dosha: "Pitta"},
		{QuestionID: "sleep_pattern", Dosha: "pitta"},
		{QuestionID: "favourite_colour", Dosha: "kapha"},
		{QuestionID: "physical_frame", Dosha: "kapha"},
	})
	require.NoError(t, err)

	assert.Equal(t, Prakriti{Vata: 0, Pitta: 3, Kapha: 1}, scores)
}

// TestScoreAnswersInvalidDosha проверяет ошибку на неизвестной доше.
func TestScoreAnswersInvalidDosha(t *testing.T) {
	_, err := ScoreAnswers([]Answer{{QuestionID: "appetite", Dosha: "ether"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestQuestionnaireCopy проверяет, что опросник нельзя изменить снаружи.
func TestQuestionnaireCopy(t *testing.T) {
	questions := Questionnaire()
	require.Len(t, questions, 12)
	questions[0].Weight = 100

	assert.Equal(t, float64(1), Questionnaire()[0].Weight)
}
