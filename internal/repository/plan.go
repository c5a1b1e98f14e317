package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

const planColumns = `id, patient_id, created_by, name, description, start_date, end_date, status, dominant_dosha,
	rationale_ayurvedic, rationale_nutritional, rationale_lifestyle, warnings, recommendations, is_generated, created_at, updated_at`

type DietPlanRepository struct {
	db *pgxpool.Pool
}

type DietPlanInput struct {
	PatientID       uuid.UUID
	CreatedBy       uuid.UUID
	Name            string
	Description     string
	StartDate       time.Time
	EndDate         time.Time
	Status          models.PlanStatus
	DominantDosha   *string
	Rationale       rules.Rationale
	Warnings        []string
	Recommendations []string
	IsGenerated     bool
	Meals           []MealInput
}

type MealInput struct {
	Name  string
	Time  string
	Notes string
	Foods []MealFoodInput
}

type MealFoodInput struct {
	FoodID   uuid.UUID
	Quantity string
	Notes    string
}

type DietPlanUpdate struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Status      models.PlanStatus
}

type DietPlanFilter struct {
	PatientID     *uuid.UUID
	CreatedBy     *uuid.UUID
	PatientUserID *uuid.UUID
	Status        *models.PlanStatus
}

// NewDietPlanRepository создает репозиторий планов питания.
func NewDietPlanRepository(db *pgxpool.Pool) *DietPlanRepository {
	return &DietPlanRepository{db: db}
}

// CreateWithDetails создает план вместе с приемами пищи и продуктами в одной транзакции.
func (r *DietPlanRepository) CreateWithDetails(ctx context.Context, input DietPlanInput) (models.DietPlan, error) {
	var plan models.DietPlan

	if strings.TrimSpace(input.Name) == "" || input.EndDate.Before(input.StartDate) {
		return plan, ErrInvalid
	}
	if input.Status == "" {
		input.Status = models.PlanStatusDraft
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return plan, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx,
		`INSERT INTO diet_plans (patient_id, created_by, name, description, start_date, end_date, status, dominant_dosha,
		                         rationale_ayurvedic, rationale_nutritional, rationale_lifestyle, warnings, recommendations, is_generated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+planColumns,
		input.PatientID, input.CreatedBy, input.Name, input.Description, input.StartDate, input.EndDate, input.Status,
		input.DominantDosha, input.Rationale.Ayurvedic, input.Rationale.Nutritional, input.Rationale.Lifestyle,
		nonNil(input.Warnings), nonNil(input.Recommendations), input.IsGenerated,
	)

	plan, err = scanPlan(row)
	if err != nil {
		return plan, mapWriteError(err)
	}

	for idx, meal := range input.Meals {
		if strings.TrimSpace(meal.Name) == "" {
			return plan, ErrInvalid
		}

		mealID := uuid.New()
		_, err = tx.Exec(ctx,
			`INSERT INTO diet_meals (id, plan_id, name, meal_time, notes, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			mealID, plan.ID, meal.Name, meal.Time, meal.Notes, idx,
		)
		if err != nil {
			return plan, err
		}

		for foodIdx, food := range meal.Foods {
			if food.FoodID == uuid.Nil {
				return plan, ErrInvalid
			}

			_, err = tx.Exec(ctx,
				`INSERT INTO meal_foods (id, meal_id, food_id, quantity, notes, sort_order)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.New(), mealID, food.FoodID, food.Quantity, food.Notes, foodIdx,
			)
			if err != nil {
				return plan, mapWriteError(err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return plan, err
	}

	return plan, nil
}

// GetByID возвращает план питания по идентификатору.
func (r *DietPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (models.DietPlan, error) {
	row := r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM diet_plans WHERE id = $1`, id)

	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plan, ErrNotFound
		}
		return plan, err
	}
	return plan, nil
}

// List возвращает планы по фильтру, новые сверху.
func (r *DietPlanRepository) List(ctx context.Context, filter DietPlanFilter, limit, offset int) ([]models.DietPlan, error) {
	where, args := buildWhere(
		clause("patient_id = $%d", filter.PatientID),
		clause("created_by = $%d", filter.CreatedBy),
		clause("patient_id IN (SELECT id FROM patients WHERE user_id = $%d)", filter.PatientUserID),
		clause("status = $%d", filter.Status),
	)

	query := `SELECT ` + planColumns + ` FROM diet_plans` + where + ` ORDER BY created_at DESC` + limitOffset(len(args))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]models.DietPlan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

// Update обновляет атрибуты плана без изменения приемов пищи.
func (r *DietPlanRepository) Update(ctx context.Context, id uuid.UUID, input DietPlanUpdate) (models.DietPlan, error) {
	var plan models.DietPlan

	if strings.TrimSpace(input.Name) == "" || input.EndDate.Before(input.StartDate) {
		return plan, ErrInvalid
	}

	row := r.db.QueryRow(ctx,
		`UPDATE diet_plans
		 SET name = $2,
		     description = $3,
		     start_date = $4,
		     end_date = $5,
		     status = $6,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+planColumns,
		id, input.Name, input.Description, input.StartDate, input.EndDate, input.Status,
	)

	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plan, ErrNotFound
		}
		return plan, mapWriteError(err)
	}

	return plan, nil
}

// Delete удаляет план питания.
func (r *DietPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM diet_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListMeals возвращает приемы пищи плана в порядке дня.
func (r *DietPlanRepository) ListMeals(ctx context.Context, planID uuid.UUID) ([]models.DietMeal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, plan_id, name, meal_time, notes, sort_order, created_at
		 FROM diet_meals
		 WHERE plan_id = $1
		 ORDER BY sort_order, created_at`,
		planID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := make([]models.DietMeal, 0)
	for rows.Next() {
		var meal models.DietMeal

		err := rows.Scan(&meal.ID, &meal.PlanID, &meal.Name, &meal.Time, &meal.Notes, &meal.SortOrder, &meal.CreatedAt)
		if err != nil {
			return nil, err
		}

		meals = append(meals, meal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return meals, nil
}

// ListMealFoods возвращает продукты по списку приемов пищи.
func (r *DietPlanRepository) ListMealFoods(ctx context.Context, mealIDs []uuid.UUID) ([]models.MealFood, error) {
	if len(mealIDs) == 0 {
		return []models.MealFood{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, meal_id, food_id, quantity, notes, sort_order
		 FROM meal_foods
		 WHERE meal_id = ANY($1)
		 ORDER BY sort_order`,
		mealIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods := make([]models.MealFood, 0)
	for rows.Next() {
		var food models.MealFood

		err := rows.Scan(&food.ID, &food.MealID, &food.FoodID, &food.Quantity, &food.Notes, &food.SortOrder)
		if err != nil {
			return nil, err
		}

		foods = append(foods, food)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return foods, nil
}

// Duplicate создает черновую копию плана с приемами пищи и продуктами.
func (r *DietPlanRepository) Duplicate(ctx context.Context, planID, createdBy uuid.UUID) (models.DietPlan, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.DietPlan{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	original, err := scanPlan(tx.QueryRow(ctx, `SELECT `+planColumns+` FROM diet_plans WHERE id = $1`, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DietPlan{}, ErrNotFound
		}
		return models.DietPlan{}, err
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO diet_plans (patient_id, created_by, name, description, start_date, end_date, status, dominant_dosha,
		                         rationale_ayurvedic, rationale_nutritional, rationale_lifestyle, warnings, recommendations, is_generated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+planColumns,
		original.PatientID, createdBy, buildCopyName(original.Name, 200), original.Description, original.StartDate, original.EndDate,
		models.PlanStatusDraft, original.DominantDosha, original.Rationale.Ayurvedic, original.Rationale.Nutritional,
		original.Rationale.Lifestyle, nonNil(original.Warnings), nonNil(original.Recommendations), original.IsGenerated,
	)

	copied, err := scanPlan(row)
	if err != nil {
		return models.DietPlan{}, err
	}

	mealRows, err := tx.Query(ctx,
		`SELECT id, name, meal_time, notes, sort_order
		 FROM diet_meals
		 WHERE plan_id = $1
		 ORDER BY sort_order, created_at`,
		planID,
	)
	if err != nil {
		return models.DietPlan{}, err
	}

	type mealCopy struct {
		oldID     uuid.UUID
		name      string
		time      string
		notes     string
		sortOrder int
	}

	meals := make([]mealCopy, 0)
	for mealRows.Next() {
		var meal mealCopy
		if err := mealRows.Scan(&meal.oldID, &meal.name, &meal.time, &meal.notes, &meal.sortOrder); err != nil {
			mealRows.Close()
			return models.DietPlan{}, err
		}
		meals = append(meals, meal)
	}
	mealRows.Close()
	if err := mealRows.Err(); err != nil {
		return models.DietPlan{}, err
	}

	mealMap := make(map[uuid.UUID]uuid.UUID, len(meals))
	oldMealIDs := make([]uuid.UUID, 0, len(meals))
	for _, meal := range meals {
		newID := uuid.New()
		mealMap[meal.oldID] = newID
		oldMealIDs = append(oldMealIDs, meal.oldID)

		_, err = tx.Exec(ctx,
			`INSERT INTO diet_meals (id, plan_id, name, meal_time, notes, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			newID, copied.ID, meal.name, meal.time, meal.notes, meal.sortOrder,
		)
		if err != nil {
			return models.DietPlan{}, err
		}
	}

	if len(oldMealIDs) > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO meal_foods (id, meal_id, food_id, quantity, notes, sort_order)
			 SELECT gen_random_uuid(), m.new_id, f.food_id, f.quantity, f.notes, f.sort_order
			 FROM meal_foods f
			 JOIN unnest($1::uuid[], $2::uuid[]) AS m(old_id, new_id) ON m.old_id = f.meal_id`,
			oldMealIDs, mappedIDs(oldMealIDs, mealMap),
		)
		if err != nil {
			return models.DietPlan{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.DietPlan{}, err
	}

	return copied, nil
}

// Count возвращает количество планов по фильтру.
func (r *DietPlanRepository) Count(ctx context.Context, filter DietPlanFilter) (int, error) {
	where, args := buildWhere(
		clause("patient_id = $%d", filter.PatientID),
		clause("created_by = $%d", filter.CreatedBy),
		clause("patient_id IN (SELECT id FROM patients WHERE user_id = $%d)", filter.PatientUserID),
		clause("status = $%d", filter.Status),
	)

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM diet_plans`+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func mappedIDs(ids []uuid.UUID, mapping map[uuid.UUID]uuid.UUID) []uuid.UUID {
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		result = append(result, mapping[id])
	}
	return result
}

func scanPlan(row pgx.Row) (models.DietPlan, error) {
	var plan models.DietPlan

	err := row.Scan(
		&plan.ID,
		&plan.PatientID,
		&plan.CreatedBy,
		&plan.Name,
		&plan.Description,
		&plan.StartDate,
		&plan.EndDate,
		&plan.Status,
		&plan.DominantDosha,
		&plan.Rationale.Ayurvedic,
		&plan.Rationale.Nutritional,
		&plan.Rationale.Lifestyle,
		&plan.Warnings,
		&plan.Recommendations,
		&plan.IsGenerated,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	return plan, err
}

func buildCopyName(name string, maxRunes int) string {
	copyName := fmt.Sprintf("Copy of %s", name)
	if len([]rune(copyName)) <= maxRunes {
		return copyName
	}

	runes := []rune(copyName)
	return string(runes[:maxRunes])
}
