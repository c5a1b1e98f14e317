package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

const patientColumns = `id, user_id, dietitian_id, name, email, date_of_birth, gender,
	vata, pitta, kapha, goals, allergies, chronic_conditions, created_at, updated_at`

type PatientRepository struct {
	db *pgxpool.Pool
}

type PatientInput struct {
	UserID            *uuid.UUID
	DietitianID       *uuid.UUID
	Name              string
	Email             *string
	DateOfBirth       *time.Time
	Gender            *string
	Prakriti          *rules.Prakriti
	Goals             []string
	Allergies         []string
	ChronicConditions []string
}

type PatientFilter struct {
	DietitianID *uuid.UUID
	UserID      *uuid.UUID
	Search      string
}

// NewPatientRepository создает репозиторий пациентов.
func NewPatientRepository(db *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{db: db}
}

// Create создает карточку пациента.
func (r *PatientRepository) Create(ctx context.Context, input PatientInput) (models.Patient, error) {
	vata, pitta, kapha := prakritiColumns(input.Prakriti)

	row := r.db.QueryRow(ctx,
		`INSERT INTO patients (user_id, dietitian_id, name, email, date_of_birth, gender, vata, pitta, kapha, goals, allergies, chronic_conditions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+patientColumns,
		input.UserID, input.DietitianID, input.Name, input.Email, input.DateOfBirth, input.Gender,
		vata, pitta, kapha, nonNil(input.Goals), nonNil(input.Allergies), nonNil(input.ChronicConditions),
	)

	patient, err := scanPatient(row)
	if err != nil {
		return patient, mapWriteError(err)
	}
	return patient, nil
}

// GetByID возвращает пациента по идентификатору.
func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Patient, error) {
	row := r.db.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)

	patient, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return patient, ErrNotFound
		}
		return patient, err
	}
	return patient, nil
}

// GetByUserID возвращает карточку пациента, привязанную к учетной записи.
func (r *PatientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (models.Patient, error) {
	row := r.db.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE user_id = $1`, userID)

	patient, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return patient, ErrNotFound
		}
		return patient, err
	}
	return patient, nil
}

// List возвращает пациентов по фильтру.
func (r *PatientRepository) List(ctx context.Context, filter PatientFilter, limit, offset int) ([]models.Patient, error) {
	where, args := buildWhere(
		clause("dietitian_id = $%d", filter.DietitianID),
		clause("user_id = $%d", filter.UserID),
		searchClause("name ILIKE $%d", filter.Search),
	)

	query := `SELECT ` + patientColumns + ` FROM patients` + where + ` ORDER BY created_at DESC` + limitOffset(len(args))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := make([]models.Patient, 0)
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return patients, nil
}

// Update обновляет карточку пациента целиком.
func (r *PatientRepository) Update(ctx context.Context, id uuid.UUID, input PatientInput) (models.Patient, error) {
	vata, pitta, kapha := prakritiColumns(input.Prakriti)

	row := r.db.QueryRow(ctx,
		`UPDATE patients
		 SET name = $2,
		     email = $3,
		     date_of_birth = $4,
		     gender = $5,
		     vata = COALESCE($6, vata),
		     pitta = COALESCE($7, pitta),
		     kapha = COALESCE($8, kapha),
		     goals = $9,
		     allergies = $10,
		     chronic_conditions = $11,
		     dietitian_id = COALESCE($12, dietitian_id),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+patientColumns,
		id, input.Name, input.Email, input.DateOfBirth, input.Gender, vata, pitta, kapha,
		nonNil(input.Goals), nonNil(input.Allergies), nonNil(input.ChronicConditions), input.DietitianID,
	)

	patient, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return patient, ErrNotFound
		}
		return patient, mapWriteError(err)
	}
	return patient, nil
}

// Delete удаляет пациента вместе с его планами и оценками.
func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func prakritiColumns(p *rules.Prakriti) (*float64, *float64, *float64) {
	if p == nil {
		return nil, nil, nil
	}
	vata, pitta, kapha := p.Vata, p.Pitta, p.Kapha
	return &vata, &pitta, &kapha
}

func scanPatient(row pgx.Row) (models.Patient, error) {
	var patient models.Patient
	var vata, pitta, kapha *float64

	err := row.Scan(
		&patient.ID,
		&patient.UserID,
		&patient.DietitianID,
		&patient.Name,
		&patient.Email,
		&patient.DateOfBirth,
		&patient.Gender,
		&vata,
		&pitta,
		&kapha,
		&patient.Goals,
		&patient.Allergies,
		&patient.ChronicConditions,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if err != nil {
		return patient, err
	}

	if vata != nil && pitta != nil && kapha != nil {
		patient.Prakriti = &rules.Prakriti{Vata: *vata, Pitta: *pitta, Kapha: *kapha}
	}

	return patient, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23503", "23514":
			return ErrInvalid
		}
	}
	return err
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
