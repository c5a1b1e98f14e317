package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ayur-diet-planner/backend/internal/models"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

type AdminUser struct {
	ID        uuid.UUID
	Email     string
	Name      *string
	Role      models.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type GenerationFilter struct {
	UserID    *uuid.UUID
	PatientID *uuid.UUID
	Success   *bool
	Mode      *string
}

type GenerationRecord struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	PatientID      *uuid.UUID
	PlanID         *uuid.UUID
	Mode           string
	DominantDosha  *string
	CatalogueSize  int
	SuitableFoods  int
	RequestPayload []byte
	Success        bool
	ErrorMessage   *string
	CreatedAt      time.Time
}

type DailyCount struct {
	Day   time.Time
	Count int
}

type UsageStats struct {
	Users             int
	Patients          int
	Foods             int
	Plans             int
	Generations       int
	GenerationSuccess int
	GenerationFail    int
	GenerationsByDay  []DailyCount
}

// NewAdminRepository создает репозиторий для админских запросов.
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// ListUsers возвращает список пользователей с пагинацией.
func (r *AdminRepository) ListUsers(ctx context.Context, role *models.Role, limit, offset int) ([]AdminUser, error) {
	where, args := buildWhere(clause("role = $%d", role))
	query := `SELECT id, email, name, role, created_at, updated_at FROM users` + where +
		` ORDER BY created_at DESC` + limitOffset(len(args))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]AdminUser, 0)
	for rows.Next() {
		var user AdminUser
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// CountUsers возвращает количество пользователей.
func (r *AdminRepository) CountUsers(ctx context.Context, role *models.Role) (int, error) {
	where, args := buildWhere(clause("role = $%d", role))

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListGenerations возвращает журнал генераций с фильтрацией.
func (r *AdminRepository) ListGenerations(ctx context.Context, filter GenerationFilter, limit, offset int, includePayloads bool) ([]GenerationRecord, error) {
	where, args := generationWhere(filter)

	payload := "NULL::jsonb"
	if includePayloads {
		payload = "request_payload"
	}

	query := `SELECT id, user_id, patient_id, plan_id, mode, dominant_dosha, catalogue_size, suitable_foods, ` + payload + `,
	                 success, error_message, created_at
	          FROM plan_generations` + where + ` ORDER BY created_at DESC` + limitOffset(len(args))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]GenerationRecord, 0)
	for rows.Next() {
		var record GenerationRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.PatientID,
			&record.PlanID,
			&record.Mode,
			&record.DominantDosha,
			&record.CatalogueSize,
			&record.SuitableFoods,
			&record.RequestPayload,
			&record.Success,
			&record.ErrorMessage,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// CountGenerations возвращает количество генераций по фильтру.
func (r *AdminRepository) CountGenerations(ctx context.Context, filter GenerationFilter) (int, error) {
	where, args := generationWhere(filter)

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM plan_generations`+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// UsageStats возвращает агрегированную статистику за N дней.
func (r *AdminRepository) UsageStats(ctx context.Context, days int) (UsageStats, error) {
	stats := UsageStats{}
	if days <= 0 {
		return stats, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM patients),
		        (SELECT COUNT(*) FROM food_items),
		        (SELECT COUNT(*) FROM diet_plans)`,
	).Scan(&stats.Users, &stats.Patients, &stats.Foods, &stats.Plans)
	if err != nil {
		return stats, err
	}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE success),
		        COUNT(*) FILTER (WHERE NOT success)
		 FROM plan_generations`,
	).Scan(&stats.Generations, &stats.GenerationSuccess, &stats.GenerationFail); err != nil {
		return stats, err
	}

	start := time.Now().UTC().AddDate(0, 0, -days+1)
	rows, err := r.db.Query(ctx,
		`SELECT date_trunc('day', created_at)::date AS day,
		        COUNT(*)
		 FROM plan_generations
		 WHERE created_at >= $1
		 GROUP BY day
		 ORDER BY day DESC`,
		start,
	)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	stats.GenerationsByDay = make([]DailyCount, 0)
	for rows.Next() {
		var row DailyCount
		if err := rows.Scan(&row.Day, &row.Count); err != nil {
			return stats, err
		}
		stats.GenerationsByDay = append(stats.GenerationsByDay, row)
	}

	if err := rows.Err(); err != nil {
		return stats, err
	}

	return stats, nil
}

func generationWhere(filter GenerationFilter) (string, []interface{}) {
	return buildWhere(
		clause("user_id = $%d", filter.UserID),
		clause("patient_id = $%d", filter.PatientID),
		clause("success = $%d", filter.Success),
		clause("mode = $%d", filter.Mode),
	)
}
