package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ayur-diet-planner/backend/internal/catalogue"
	"example.com/ayur-diet-planner/backend/internal/config"
	"example.com/ayur-diet-planner/backend/internal/database"
	"example.com/ayur-diet-planner/backend/internal/repository"
	"example.com/ayur-diet-planner/backend/internal/server"
)

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	db, err := database.Open(context.Background(), cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		db.Close()
	}()

	if err := database.Migrate(context.Background(), db); err != nil {
		logger.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Catalogue.SeedOnStart {
		if err := seedCatalogue(context.Background(), db, cfg.Catalogue.File); err != nil {
			logger.Error("failed to seed food catalogue", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	e := server.New(cfg, logger, db)
	httpServer := server.NewHTTPServer(cfg.Server, e)

	go func() {
		logger.Info("http server started", slog.String("addr", httpServer.Addr))
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

func seedCatalogue(ctx context.Context, db *pgxpool.Pool, path string) error {
	foods, err := catalogue.Source(path)
	if err != nil {
		return err
	}

	count, err := catalogue.Seed(ctx, repository.NewFoodRepository(db), foods)
	if err != nil {
		return err
	}

	slog.Info("food catalogue seeded", slog.Int("foods", count))
	return nil
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}
