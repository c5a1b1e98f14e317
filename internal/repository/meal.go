package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ayur-diet-planner/backend/internal/models"
)

const mealFoodColumns = `id, meal_id, food_id, quantity, notes, sort_order`

type MealRepository struct {
	db *pgxpool.Pool
}

// NewMealRepository создает репозиторий приемов пищи.
func NewMealRepository(db *pgxpool.Pool) *MealRepository {
	return &MealRepository{db: db}
}

// GetPlanIDByMealID возвращает план, которому принадлежит прием пищи.
func (r *MealRepository) GetPlanIDByMealID(ctx context.Context, mealID uuid.UUID) (uuid.UUID, error) {
	var planID uuid.UUID

	err := r.db.QueryRow(ctx, `SELECT plan_id FROM diet_meals WHERE id = $1`, mealID).Scan(&planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, err
	}

	return planID, nil
}

// GetPlanIDByMealFoodID возвращает план, которому принадлежит продукт в приеме пищи.
func (r *MealRepository) GetPlanIDByMealFoodID(ctx context.Context, mealFoodID uuid.UUID) (uuid.UUID, error) {
	var planID uuid.UUID

	err := r.db.QueryRow(ctx,
		`SELECT m.plan_id
		 FROM meal_foods f
		 JOIN diet_meals m ON m.id = f.meal_id
		 WHERE f.id = $1`,
		mealFoodID,
	).Scan(&planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, err
	}

	return planID, nil
}

// UpdateMeal меняет время и заметки приема пищи.
func (r *MealRepository) UpdateMeal(ctx context.Context, mealID uuid.UUID, name, mealTime, notes string) (models.DietMeal, error) {
	var meal models.DietMeal

	err := r.db.QueryRow(ctx,
		`UPDATE diet_meals
		 SET name = $2, meal_time = $3, notes = $4
		 WHERE id = $1
		 RETURNING id, plan_id, name, meal_time, notes, sort_order, created_at`,
		mealID, name, mealTime, notes,
	).Scan(&meal.ID, &meal.PlanID, &meal.Name, &meal.Time, &meal.Notes, &meal.SortOrder, &meal.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return meal, ErrNotFound
		}
		return meal, err
	}

	return meal, nil
}

// AddFood добавляет продукт в конец приема пищи.
func (r *MealRepository) AddFood(ctx context.Context, mealID, foodID uuid.UUID, quantity, notes string) (models.MealFood, error) {
	var food models.MealFood

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return food, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var lockedID uuid.UUID
	if err := tx.QueryRow(ctx,
		`SELECT id FROM diet_meals WHERE id = $1 FOR UPDATE`,
		mealID,
	).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return food, ErrNotFound
		}
		return food, err
	}

	var maxOrder int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sort_order), -1)
		 FROM meal_foods
		 WHERE meal_id = $1`,
		mealID,
	).Scan(&maxOrder)
	if err != nil {
		return food, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO meal_foods (id, meal_id, food_id, quantity, notes, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+mealFoodColumns,
		uuid.New(), mealID, foodID, quantity, notes, maxOrder+1,
	).Scan(&food.ID, &food.MealID, &food.FoodID, &food.Quantity, &food.Notes, &food.SortOrder)
	if err != nil {
		return food, mapWriteError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return food, err
	}

	return food, nil
}

// UpdateFood меняет порцию и заметку продукта в приеме пищи.
func (r *MealRepository) UpdateFood(ctx context.Context, mealFoodID uuid.UUID, quantity, notes string) (models.MealFood, error) {
	var food models.MealFood

	err := r.db.QueryRow(ctx,
		`UPDATE meal_foods
		 SET quantity = $2, notes = $3
		 WHERE id = $1
		 RETURNING `+mealFoodColumns,
		mealFoodID, quantity, notes,
	).Scan(&food.ID, &food.MealID, &food.FoodID, &food.Quantity, &food.Notes, &food.SortOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return food, ErrNotFound
		}
		return food, err
	}

	return food, nil
}

// DeleteFood убирает продукт из приема пищи.
func (r *MealRepository) DeleteFood(ctx context.Context, mealFoodID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM meal_foods WHERE id = $1`, mealFoodID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ReorderFoods меняет порядок продуктов внутри приема пищи.
func (r *MealRepository) ReorderFoods(ctx context.Context, mealID uuid.UUID, foodIDs []uuid.UUID) error {
	if len(foodIDs) == 0 {
		return ErrInvalid
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var count, total int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE id = ANY($2)), COUNT(*)
		 FROM meal_foods
		 WHERE meal_id = $1`,
		mealID, foodIDs,
	).Scan(&count, &total)
	if err != nil {
		return err
	}

	if total == 0 {
		return ErrNotFound
	}
	if count != len(foodIDs) || total != len(foodIDs) {
		return ErrInvalid
	}

	cmd, err := tx.Exec(ctx,
		`UPDATE meal_foods AS f
		 SET sort_order = v.ord - 1
		 FROM unnest($1::uuid[]) WITH ORDINALITY AS v(id, ord)
		 WHERE f.id = v.id AND f.meal_id = $2`,
		foodIDs, mealID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() != int64(len(foodIDs)) {
		return ErrInvalid
	}

	return tx.Commit(ctx)
}
