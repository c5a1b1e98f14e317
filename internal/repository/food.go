package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

const foodColumns = `id, name, serving_size, calories, protein, fat, carbs, fiber,
	vata_effect, pitta_effect, kapha_effect, potency, taste, quality, contraindications, created_at, updated_at`

type FoodRepository struct {
	db *pgxpool.Pool
}

// NewFoodRepository создает репозиторий каталога продуктов.
func NewFoodRepository(db *pgxpool.Pool) *FoodRepository {
	return &FoodRepository{db: db}
}

// Create добавляет продукт в каталог.
func (r *FoodRepository) Create(ctx context.Context, food rules.FoodItem) (models.FoodItem, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO food_items (name, serving_size, calories, protein, fat, carbs, fiber,
		                         vata_effect, pitta_effect, kapha_effect, potency, taste, quality, contraindications)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+foodColumns,
		foodArgs(food)...,
	)

	item, err := scanFood(row)
	if err != nil {
		return item, mapWriteError(err)
	}
	return item, nil
}

// Upsert добавляет продукт или обновляет существующий с тем же названием.
func (r *FoodRepository) Upsert(ctx context.Context, food rules.FoodItem) (models.FoodItem, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO food_items (name, serving_size, calories, protein, fat, carbs, fiber,
		                         vata_effect, pitta_effect, kapha_effect, potency, taste, quality, contraindications)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT ((LOWER(name))) DO UPDATE
		 SET serving_size = EXCLUDED.serving_size,
		     calories = EXCLUDED.calories,
		     protein = EXCLUDED.protein,
		     fat = EXCLUDED.fat,
		     carbs = EXCLUDED.carbs,
		     fiber = EXCLUDED.fiber,
		     vata_effect = EXCLUDED.vata_effect,
		     pitta_effect = EXCLUDED.pitta_effect,
		     kapha_effect = EXCLUDED.kapha_effect,
		     potency = EXCLUDED.potency,
		     taste = EXCLUDED.taste,
		     quality = EXCLUDED.quality,
		     contraindications = EXCLUDED.contraindications,
		     updated_at = NOW()
		 RETURNING `+foodColumns,
		foodArgs(food)...,
	)
	return scanFood(row)
}

// GetByID возвращает продукт по идентификатору.
func (r *FoodRepository) GetByID(ctx context.Context, id uuid.UUID) (models.FoodItem, error) {
	row := r.db.QueryRow(ctx, `SELECT `+foodColumns+` FROM food_items WHERE id = $1`, id)

	item, err := scanFood(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, ErrNotFound
		}
		return item, err
	}
	return item, nil
}

// List возвращает продукты с поиском по названию и пагинацией.
func (r *FoodRepository) List(ctx context.Context, search string, limit, offset int) ([]models.FoodItem, error) {
	where, args := buildWhere(searchClause("name ILIKE $%d", search))
	query := `SELECT ` + foodColumns + ` FROM food_items` + where + ` ORDER BY name` + limitOffset(len(args))
	args = append(args, limit, offset)

	return r.query(ctx, query, args...)
}

// ListAll возвращает весь каталог в стабильном порядке для генератора.
func (r *FoodRepository) ListAll(ctx context.Context) ([]models.FoodItem, error) {
	return r.query(ctx, `SELECT `+foodColumns+` FROM food_items ORDER BY created_at, name`)
}

// ListByIDs возвращает продукты по списку идентификаторов.
func (r *FoodRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.FoodItem, error) {
	result := make(map[uuid.UUID]models.FoodItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	items, err := r.query(ctx, `SELECT `+foodColumns+` FROM food_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		result[item.ID] = item
	}
	return result, nil
}

// Count возвращает число продуктов в каталоге.
func (r *FoodRepository) Count(ctx context.Context, search string) (int, error) {
	where, args := buildWhere(searchClause("name ILIKE $%d", search))

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM food_items`+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Update обновляет продукт.
func (r *FoodRepository) Update(ctx context.Context, id uuid.UUID, food rules.FoodItem) (models.FoodItem, error) {
	args := append([]interface{}{id}, foodArgs(food)...)
	row := r.db.QueryRow(ctx,
		`UPDATE food_items
		 SET name = $2,
		     serving_size = $3,
		     calories = $4,
		     protein = $5,
		     fat = $6,
		     carbs = $7,
		     fiber = $8,
		     vata_effect = $9,
		     pitta_effect = $10,
		     kapha_effect = $11,
		     potency = $12,
		     taste = $13,
		     quality = $14,
		     contraindications = $15,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+foodColumns,
		args...,
	)

	item, err := scanFood(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, ErrNotFound
		}
		return item, mapWriteError(err)
	}
	return item, nil
}

// Delete удаляет продукт. Продукт, используемый в планах, удалить нельзя.
func (r *FoodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM food_items WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrConflict
		}
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *FoodRepository) query(ctx context.Context, sql string, args ...interface{}) ([]models.FoodItem, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.FoodItem, 0)
	for rows.Next() {
		item, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func foodArgs(food rules.FoodItem) []interface{} {
	return []interface{}{
		food.Name,
		food.ServingSize,
		food.Nutrition.Calories,
		food.Nutrition.Protein,
		food.Nutrition.Fat,
		food.Nutrition.Carbs,
		food.Nutrition.Fiber,
		string(food.VataEffect),
		string(food.PittaEffect),
		string(food.KaphaEffect),
		string(food.Potency),
		nonNil(food.Taste),
		nonNil(food.Quality),
		nonNil(food.Contraindications),
	}
}

func scanFood(row pgx.Row) (models.FoodItem, error) {
	var item models.FoodItem
	var vata, pitta, kapha, potency string

	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.ServingSize,
		&item.Nutrition.Calories,
		&item.Nutrition.Protein,
		&item.Nutrition.Fat,
		&item.Nutrition.Carbs,
		&item.Nutrition.Fiber,
		&vata,
		&pitta,
		&kapha,
		&potency,
		&item.Taste,
		&item.Quality,
		&item.Contraindications,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return item, err
	}

	item.VataEffect = rules.DoshaEffect(vata)
	item.PittaEffect = rules.DoshaEffect(pitta)
	item.KaphaEffect = rules.DoshaEffect(kapha)
	item.Potency = rules.Potency(potency)
	return item, nil
}
