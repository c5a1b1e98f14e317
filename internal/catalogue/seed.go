package catalogue

import (
	"context"
	"fmt"
	"strings"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

// Store сохраняет продукт каталога, обновляя существующий с тем же названием.
type Store interface {
	Upsert(ctx context.Context, food rules.FoodItem) (models.FoodItem, error)
}

// Source возвращает каталог из файла, а без файла встроенный справочник.
func Source(path string) ([]rules.FoodItem, error) {
	if strings.TrimSpace(path) == "" {
		return Reference()
	}
	return LoadFile(path)
}

// Seed записывает продукты в хранилище и возвращает число записанных.
func Seed(ctx context.Context, store Store, foods []rules.FoodItem) (int, error) {
	for i, food := range foods {
		if _, err := store.Upsert(ctx, food); err != nil {
			return i, fmt.Errorf("seed food %q: %w", food.Name, err)
		}
	}
	return len(foods), nil
}
