package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ayur-diet-planner/backend/internal/config"
)

//go:embed schema.sql
var schema string

// Open открывает пул подключений к PostgreSQL с ретраями.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, cfgErr := pgxpool.ParseConfig(cfg.DSN())
	if cfgErr != nil {
		return nil, fmt.Errorf("parse database config: %w", cfgErr)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	// MaxIdleConns maps closest to MinConns in pgxpool.
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	var pool *pgxpool.Pool
	var err error

	backoff := cfg.RetryBackoff
	for attempt := 1; attempt <= cfg.ConnectRetries; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = pool.Ping(pingCtx)
			cancel()

			if err == nil {
				return pool, nil
			}
		}

		if pool != nil {
			pool.Close()
		}

		slog.Warn("database connection attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("retries", cfg.ConnectRetries),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()),
		)

		if attempt == cfg.ConnectRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", cfg.ConnectRetries, err)
}

// Migrate применяет схему базы данных. Схема идемпотентна.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
