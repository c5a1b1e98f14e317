package rules

func food(name string, n Nutrition, vata, pitta, kapha DoshaEffect, potency Potency, quality, taste, contra []string) FoodItem {
	return FoodItem{
		ID:                name,
		Name:              name,
		Nutrition:         n,
		VataEffect:        vata,
		PittaEffect:       pitta,
		KaphaEffect:       kapha,
		Potency:           potency,
		Quality:           quality,
		Taste:             taste,
		Contraindications: contra,
	}
}

func referenceFoods() []FoodItem {
	return []FoodItem{
		food("Basmati Rice", Nutrition{205, 4.3, 0.4, 45, 0.6}, EffectPacifies, EffectNeutral, EffectAggravates, PotencyCooling,
			[]string{"LIGHT", "DRY"}, []string{"SWEET"}, []string{"kapha imbalance", "obesity", "diabetes"}),
		food("Mung Dal", Nutrition{212, 14.2, 0.8, 38.7, 15.4}, EffectPacifies, EffectPacifies, EffectNeutral, PotencyCooling,
			[]string{"LIGHT", "DRY"}, []string{"SWEET", "ASTRINGENT"}, []string{"high vata (when unsprouted)"}),
		food("Ghee", Nutrition{135, 0, 15, 0, 0}, EffectPacifies, EffectPacifies, EffectNeutral, PotencyCooling,
			[]string{"HEAVY", "OILY", "SMOOTH"}, []string{"SWEET"}, []string{"high cholesterol", "obesity", "kapha imbalance"}),
		food("Ginger", Nutrition{8, 0.2, 0.1, 1.8, 0.2}, EffectPacifies, EffectAggravates, EffectPacifies, PotencyHeating,
			[]string{"LIGHT", "DRY", "SHARP", "HOT"}, []string{"PUNGENT"}, []string{"pitta imbalance", "bleeding disorders", "high fever"}),
		food("Turmeric", Nutrition{9, 0.3, 0.1, 1.7, 0.6}, EffectPacifies, EffectAggravates, EffectPacifies, PotencyHeating,
			[]string{"LIGHT", "DRY"}, []string{"BITTER", "ASTRINGENT", "PUNGENT"}, []string{"pitta imbalance", "bleeding disorders", "pregnancy (high doses)"}),
		food("Coconut Water", Nutrition{46, 1.7, 0.5, 8.9, 2.6}, EffectPacifies, EffectPacifies, EffectAggravates, PotencyCooling,
			[]string{"LIGHT", "OILY", "COOL"}, []string{"SWEET"}, []string{"kapha imbalance", "cough", "cold"}),
		food("Almonds", Nutrition{164, 6, 14, 6, 3.5}, EffectPacifies, EffectNeutral, EffectAggravates, PotencyHeating,
			[]string{"HEAVY", "OILY"}, []string{"SWEET"}, []string{"kapha imbalance", "obesity", "high ama"}),
		food("Spinach", Nutrition{41, 5.4, 0.5, 6.8, 4.3}, EffectAggravates, EffectPacifies, EffectPacifies, PotencyCooling,
			[]string{"LIGHT", "DRY", "COOL"}, []string{"SWEET", "ASTRINGENT", "BITTER"}, []string{"vata imbalance", "kidney stones", "thyroid disorders"}),
	}
}

func profile(vata, pitta, kapha float64) PatientProfile {
	return PatientProfile{
		ID:       "patient-1",
		Name:     "Asha",
		Prakriti: &Prakriti{Vata: vata, Pitta: pitta, Kapha: kapha},
	}
}
