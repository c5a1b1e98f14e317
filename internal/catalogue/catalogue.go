package catalogue

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"example.com/ayur-diet-planner/backend/internal/rules"
)

//go:embed reference_foods.yaml
var referenceFoods []byte

var ErrInvalidCatalogue = errors.New("invalid catalogue")

type document struct {
	Foods []entry `yaml:"foods"`
}

type entry struct {
	Name              string          `yaml:"name"`
	ServingSize       string          `yaml:"serving_size"`
	Nutrition         rules.Nutrition `yaml:"nutrition"`
	Effects           effects         `yaml:"effects"`
	Potency           string          `yaml:"potency"`
	Quality           []string        `yaml:"quality"`
	Taste             []string        `yaml:"taste"`
	Contraindications []string        `yaml:"contraindications"`
}

type effects struct {
	Vata  string `yaml:"vata"`
	Pitta string `yaml:"pitta"`
	Kapha string `yaml:"kapha"`
}

// Reference возвращает встроенный справочный каталог продуктов.
func Reference() ([]rules.FoodItem, error) {
	return Load(bytes.NewReader(referenceFoods))
}

// LoadFile читает каталог продуктов из YAML-файла.
func LoadFile(path string) ([]rules.FoodItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalogue %s: %w", path, err)
	}
	defer file.Close()

	return Load(file)
}

// Load разбирает YAML-каталог и проверяет значения перечислений.
func Load(r io.Reader) ([]rules.FoodItem, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var doc document
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []rules.FoodItem{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalogue, err)
	}

	foods := make([]rules.FoodItem, 0, len(doc.Foods))
	seen := make(map[string]struct{}, len(doc.Foods))
	for idx, e := range doc.Foods {
		food, err := e.toFoodItem()
		if err != nil {
			return nil, fmt.Errorf("%w: food #%d: %v", ErrInvalidCatalogue, idx+1, err)
		}

		key := strings.ToLower(food.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate food %q", ErrInvalidCatalogue, food.Name)
		}
		seen[key] = struct{}{}

		foods = append(foods, food)
	}

	return foods, nil
}

// Slug строит стабильный идентификатор продукта из названия.
func Slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}

func (e entry) toFoodItem() (rules.FoodItem, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return rules.FoodItem{}, errors.New("name is required")
	}

	n := e.Nutrition
	if n.Calories < 0 || n.Protein < 0 || n.Fat < 0 || n.Carbs < 0 || n.Fiber < 0 {
		return rules.FoodItem{}, fmt.Errorf("%s: nutrition values must be non-negative", name)
	}

	vata, err := parseEffect(name, "vata", e.Effects.Vata)
	if err != nil {
		return rules.FoodItem{}, err
	}
	pitta, err := parseEffect(name, "pitta", e.Effects.Pitta)
	if err != nil {
		return rules.FoodItem{}, err
	}
	kapha, err := parseEffect(name, "kapha", e.Effects.Kapha)
	if err != nil {
		return rules.FoodItem{}, err
	}

	potency := rules.PotencyNeutral
	if strings.TrimSpace(e.Potency) != "" {
		parsed, ok := rules.ParsePotency(e.Potency)
		if !ok {
			return rules.FoodItem{}, fmt.Errorf("%s: unknown potency %q", name, e.Potency)
		}
		potency = parsed
	}

	return rules.FoodItem{
		ID:                Slug(name),
		Name:              name,
		ServingSize:       strings.TrimSpace(e.ServingSize),
		Nutrition:         n,
		VataEffect:        vata,
		PittaEffect:       pitta,
		KaphaEffect:       kapha,
		Potency:           potency,
		Taste:             upper(e.Taste),
		Quality:           upper(e.Quality),
		Contraindications: nonEmpty(e.Contraindications),
	}, nil
}

// missing effect means the food is neutral for that dosha
func parseEffect(name, dosha, value string) (rules.DoshaEffect, error) {
	if strings.TrimSpace(value) == "" {
		return rules.EffectNeutral, nil
	}

	effect, ok := rules.ParseDoshaEffect(value)
	if !ok {
		return "", fmt.Errorf("%s: unknown %s effect %q", name, dosha, value)
	}
	return effect, nil
}

func upper(values []string) []string {
	out := nonEmpty(values)
	for i := range out {
		out[i] = strings.ToUpper(out[i])
	}
	return out
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
