package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepository struct {
	db *pgxpool.Pool
}

type OverviewStats struct {
	Patients       int
	TotalPlans     int
	ActivePlans    int
	DraftPlans     int
	GeneratedPlans int
}

type DoshaCount struct {
	Dosha string
	Plans int
}

type MonthlyPlans struct {
	Month     time.Time
	Plans     int
	Generated int
}

// NewStatsRepository создает репозиторий статистики.
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview возвращает сводку по пациентам и планам. Пустой createdBy означает всю клинику.
func (r *StatsRepository) Overview(ctx context.Context, createdBy *uuid.UUID) (OverviewStats, error) {
	var stats OverviewStats

	patientsWhere, patientArgs := buildWhere(clause("dietitian_id = $%d", createdBy))
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+patientsWhere, patientArgs...).Scan(&stats.Patients); err != nil {
		return stats, err
	}

	where, args := buildWhere(clause("created_by = $%d", createdBy))
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'ACTIVE'),
		        COUNT(*) FILTER (WHERE status = 'DRAFT'),
		        COUNT(*) FILTER (WHERE is_generated)
		 FROM diet_plans`+where,
		args...,
	).Scan(&stats.TotalPlans, &stats.ActivePlans, &stats.DraftPlans, &stats.GeneratedPlans)
	if err != nil {
		return stats, err
	}

	return stats, nil
}

// DoshaDistribution возвращает число планов по ведущей доше.
func (r *StatsRepository) DoshaDistribution(ctx context.Context, createdBy *uuid.UUID) ([]DoshaCount, error) {
	where, args := buildWhere(clause("created_by = $%d", createdBy))

	rows, err := r.db.Query(ctx,
		`SELECT COALESCE(dominant_dosha, ''), COUNT(*)
		 FROM diet_plans`+where+`
		 GROUP BY 1
		 ORDER BY 2 DESC, 1`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]DoshaCount, 0)
	for rows.Next() {
		var row DoshaCount
		if err := rows.Scan(&row.Dosha, &row.Plans); err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// MonthlyPlans возвращает количество созданных планов по месяцам.
func (r *StatsRepository) MonthlyPlans(ctx context.Context, createdBy *uuid.UUID, months int) ([]MonthlyPlans, error) {
	if months <= 0 {
		return nil, ErrInvalid
	}

	where, args := buildWhere(clause("created_by = $%d", createdBy))
	args = append(args, months)

	rows, err := r.db.Query(ctx,
		`SELECT date_trunc('month', start_date)::date AS month,
		        COUNT(*),
		        COUNT(*) FILTER (WHERE is_generated)
		 FROM diet_plans`+where+`
		 GROUP BY month
		 ORDER BY month DESC
		 LIMIT $`+strconv.Itoa(len(args)),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]MonthlyPlans, 0)
	for rows.Next() {
		var row MonthlyPlans
		if err := rows.Scan(&row.Month, &row.Plans, &row.Generated); err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
