package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	GenerationModePreview = "preview"
	GenerationModePatient = "patient"
)

type GenerationRepository struct {
	db *pgxpool.Pool
}

type GenerationLog struct {
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
}

// NewGenerationRepository создает репозиторий журнала генераций.
func NewGenerationRepository(db *pgxpool.Pool) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Log сохраняет запись о запуске генератора.
func (r *GenerationRepository) Log(ctx context.Context, log GenerationLog) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO plan_generations
		 (user_id, patient_id, plan_id, mode, dominant_dosha, catalogue_size, suitable_foods, request_payload, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::jsonb, $9, $10)`,
		log.UserID,
		log.PatientID,
		log.PlanID,
		log.Mode,
		log.DominantDosha,
		log.CatalogueSize,
		log.SuitableFoods,
		string(log.RequestPayload),
		log.Success,
		log.ErrorMessage,
	)
	return err
}
