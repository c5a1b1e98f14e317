package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/config"
	"example.com/ayur-diet-planner/backend/internal/handlers"
	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/notifications"
	"example.com/ayur-diet-planner/backend/internal/repository"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	foodRepo := repository.NewFoodRepository(db)
	planRepo := repository.NewDietPlanRepository(db)
	mealRepo := repository.NewMealRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	generationRepo := repository.NewGenerationRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	notificationHub := notifications.NewHub()

	registerRoutes(e, routeHandlers{
		auth:          handlers.NewAuthHandler(userRepo, tokenRepo, tokenManager, cfg.Admin.Emails),
		patients:      handlers.NewPatientHandler(patientRepo, assessmentRepo),
		foods:         handlers.NewFoodHandler(foodRepo),
		plans:         handlers.NewPlanHandler(planRepo, foodRepo, patientRepo, notificationHub),
		meals:         handlers.NewMealHandler(mealRepo, planRepo, patientRepo, notificationHub),
		generator:     handlers.NewGeneratorHandler(patientRepo, foodRepo, planRepo, generationRepo, notificationHub),
		stats:         handlers.NewStatsHandler(statsRepo),
		notifications: handlers.NewNotificationHandler(notificationHub),
		admin:         handlers.NewAdminHandler(adminRepo, userRepo, tokenRepo),
		ready:         handlers.Ready(db),
	}, routeMiddleware{
		auth:        authenticate(auth.JWTMiddleware(tokenManager), auth.CurrentRole(userRoleLookup(userRepo))),
		authLimiter: rateLimiter(cfg.Auth.RateLimitPerMinute, cfg.Auth.RateLimitBurst),
		planLimiter: rateLimiter(cfg.Planner.RateLimitPerMinute, cfg.Planner.RateLimitBurst),
	})

	return e
}

// authenticate объединяет middleware в одну цепочку, первая выполняется первой.
func authenticate(chain ...echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		for i := len(chain) - 1; i >= 0; i-- {
			next = chain[i](next)
		}
		return next
	}
}

func userRoleLookup(users *repository.UserRepository) auth.RoleLookup {
	return func(ctx context.Context, userID uuid.UUID) (models.Role, error) {
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", auth.ErrUnknownUser
			}
			return "", err
		}
		return user.Role, nil
	}
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func rateLimiter(perMinute, burst int) echo.MiddlewareFunc {
	limit := rate.Limit(float64(perMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     burst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
