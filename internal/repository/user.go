package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ayur-diet-planner/backend/internal/models"
)

const userColumns = `id, email, password_hash, name, role, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create создает пользователя с ролью.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string, name *string, role models.Role) (models.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		email, passwordHash, name, role,
	)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user, ErrConflict
		}
		return user, err
	}

	return user, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUserOrNotFound(row)
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUserOrNotFound(row)
}

// UpdateRole меняет роль пользователя.
func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (models.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE users SET role = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, role,
	)
	return scanUserOrNotFound(row)
}

func scanUserOrNotFound(row pgx.Row) (models.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var nameValue *string

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &nameValue, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return user, err
	}

	user.Name = nameValue
	return user, nil
}
