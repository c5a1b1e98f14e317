package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

const assessmentColumns = `id, patient_id, assessed_by, vata_score, pitta_score, kapha_score,
	vata, pitta, kapha, dominant, constitution, confidence, answers, created_at`

type AssessmentRepository struct {
	db *pgxpool.Pool
}

type AssessmentInput struct {
	PatientID  uuid.UUID
	AssessedBy uuid.UUID
	Scores     rules.Prakriti
	Result     rules.Assessment
	Answers    json.RawMessage
}

// NewAssessmentRepository создает репозиторий оценок пракрити.
func NewAssessmentRepository(db *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create сохраняет оценку и переносит проценты дош в карточку пациента.
func (r *AssessmentRepository) Create(ctx context.Context, input AssessmentInput) (models.PrakritiAssessment, error) {
	var assessment models.PrakritiAssessment

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return assessment, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	cmd, err := tx.Exec(ctx,
		`UPDATE patients
		 SET vata = $2, pitta = $3, kapha = $4, updated_at = NOW()
		 WHERE id = $1`,
		input.PatientID, float64(input.Result.Vata), float64(input.Result.Pitta), float64(input.Result.Kapha),
	)
	if err != nil {
		return assessment, err
	}
	if cmd.RowsAffected() == 0 {
		return assessment, ErrNotFound
	}

	var answers *string
	if len(input.Answers) > 0 {
		value := string(input.Answers)
		answers = &value
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO prakriti_assessments
		 (patient_id, assessed_by, vata_score, pitta_score, kapha_score, vata, pitta, kapha, dominant, constitution, confidence, answers)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb)
		 RETURNING `+assessmentColumns,
		input.PatientID, input.AssessedBy, input.Scores.Vata, input.Scores.Pitta, input.Scores.Kapha,
		input.Result.Vata, input.Result.Pitta, input.Result.Kapha, doshaNames(input.Result.Dominant),
		input.Result.Constitution, input.Result.Confidence, answers,
	)

	assessment, err = scanAssessment(row)
	if err != nil {
		return assessment, mapWriteError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return assessment, err
	}

	return assessment, nil
}

// ListByPatient возвращает историю оценок пациента, новые сверху.
func (r *AssessmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.PrakritiAssessment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assessmentColumns+`
		 FROM prakriti_assessments
		 WHERE patient_id = $1
		 ORDER BY created_at DESC`,
		patientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := make([]models.PrakritiAssessment, 0)
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assessments, nil
}

// Latest возвращает последнюю оценку пациента.
func (r *AssessmentRepository) Latest(ctx context.Context, patientID uuid.UUID) (models.PrakritiAssessment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+assessmentColumns+`
		 FROM prakriti_assessments
		 WHERE patient_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		patientID,
	)

	assessment, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assessment, ErrNotFound
		}
		return assessment, err
	}
	return assessment, nil
}

func doshaNames(doshas []rules.Dosha) []string {
	names := make([]string, 0, len(doshas))
	for _, dosha := range doshas {
		names = append(names, string(dosha))
	}
	return names
}

func scanAssessment(row pgx.Row) (models.PrakritiAssessment, error) {
	var assessment models.PrakritiAssessment
	var answers []byte

	err := row.Scan(
		&assessment.ID,
		&assessment.PatientID,
		&assessment.AssessedBy,
		&assessment.Scores.Vata,
		&assessment.Scores.Pitta,
		&assessment.Scores.Kapha,
		&assessment.Vata,
		&assessment.Pitta,
		&assessment.Kapha,
		&assessment.Dominant,
		&assessment.Constitution,
		&assessment.Confidence,
		&answers,
		&assessment.CreatedAt,
	)
	if err != nil {
		return assessment, err
	}

	if len(answers) > 0 {
		assessment.Answers = json.RawMessage(answers)
	}
	return assessment, nil
}
