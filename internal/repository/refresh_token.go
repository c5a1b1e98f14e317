package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ayur-diet-planner/backend/internal/models"
)

const (
	refreshTokenColumns = `id, user_id, token_hash, expires_at, created_at, revoked_at, replaced_by`

	insertRefreshToken = `INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)`

	revokeRefreshToken = `UPDATE refresh_tokens
		SET revoked_at = NOW(), replaced_by = $2
		WHERE id = $1 AND revoked_at IS NULL`
)

type RefreshTokenRepository struct {
	db *pgxpool.Pool
}

// NewRefreshTokenRepository создает репозиторий refresh-токенов.
func NewRefreshTokenRepository(db *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create сохраняет refresh-токен.
func (r *RefreshTokenRepository) Create(ctx context.Context, token models.RefreshToken) error {
	_, err := r.db.Exec(ctx, insertRefreshToken, token.ID, token.UserID, token.TokenHash, token.ExpiresAt)
	return err
}

// GetByID возвращает refresh-токен, в том числе отозванный.
func (r *RefreshTokenRepository) GetByID(ctx context.Context, id uuid.UUID) (models.RefreshToken, error) {
	row := r.db.QueryRow(ctx, `SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE id = $1`, id)

	var token models.RefreshToken
	err := row.Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt, &token.RevokedAt, &token.ReplacedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return token, ErrNotFound
		}
		return token, err
	}
	return token, nil
}

// Revoke помечает refresh-токен отозванным.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID, replacedBy *uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, revokeRefreshToken, id, replacedBy)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeAllForUser отзывает все активные refresh-токены пользователя.
func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens
		 SET revoked_at = NOW()
		 WHERE user_id = $1 AND revoked_at IS NULL`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// Rotate выпускает новый refresh-токен и отзывает старый в одной транзакции.
// Если старый токен уже отозван, возвращает ErrNotFound.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldID uuid.UUID, newToken models.RefreshToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Exec(ctx, insertRefreshToken, newToken.ID, newToken.UserID, newToken.TokenHash, newToken.ExpiresAt); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, revokeRefreshToken, oldID, newToken.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}
