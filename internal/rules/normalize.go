package rules

import (
	"fmt"
	"strings"
)

// NormalizeFood приводит перечисления продукта к каноническому виду.
// Значения разбираются без учета регистра, пустое влияние или потенция
// считаются нейтральными, неизвестные значения дают ErrInvalidInput.
func NormalizeFood(food FoodItem) (FoodItem, error) {
	effects := []struct {
		dosha Dosha
		value *DoshaEffect
	}{
		{Vata, &food.VataEffect},
		{Pitta, &food.PittaEffect},
		{Kapha, &food.KaphaEffect},
	}
	for _, effect := range effects {
		raw := string(*effect.value)
		if strings.TrimSpace(raw) == "" {
			*effect.value = EffectNeutral
			continue
		}
		parsed, ok := ParseDoshaEffect(raw)
		if !ok {
			return FoodItem{}, fmt.Errorf("%w: food %q has unknown %s effect %q", ErrInvalidInput, food.Name, effect.dosha, raw)
		}
		*effect.value = parsed
	}

	if strings.TrimSpace(string(food.Potency)) == "" {
		food.Potency = PotencyNeutral
	} else {
		parsed, ok := ParsePotency(string(food.Potency))
		if !ok {
			return FoodItem{}, fmt.Errorf("%w: food %q has unknown potency %q", ErrInvalidInput, food.Name, food.Potency)
		}
		food.Potency = parsed
	}

	return food, nil
}

// NormalizeCatalogue нормализует каждый продукт каталога, не изменяя исходный срез.
func NormalizeCatalogue(catalogue []FoodItem) ([]FoodItem, error) {
	out := make([]FoodItem, 0, len(catalogue))
	for _, food := range catalogue {
		normalized, err := NormalizeFood(food)
		if err != nil {
			return nil, err
		}
		out = append(out, normalized)
	}
	return out, nil
}
