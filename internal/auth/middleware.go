package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/models"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "user_role"
)

// JWTMiddleware проверяет access-токен и сохраняет user_id и роль в контексте.
func JWTMiddleware(manager *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := manager.ParseAccessToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			role, ok := models.ParseRole(string(claims.Role))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token role")
			}

			c.Set(ContextUserIDKey, userID)
			c.Set(ContextRoleKey, role)
			return next(c)
		}
	}
}

// RoleLookup возвращает текущую роль пользователя из хранилища.
type RoleLookup func(ctx context.Context, userID uuid.UUID) (models.Role, error)

// ErrUnknownUser возвращается RoleLookup, если пользователь больше не существует.
var ErrUnknownUser = errors.New("unknown user")

// CurrentRole заменяет роль из токена ролью из хранилища.
// Ставится после JWTMiddleware, чтобы смена роли действовала до истечения access-токена.
func CurrentRole(lookup RoleLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserIDFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing user")
			}

			role, err := lookup(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, ErrUnknownUser) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				return err
			}

			c.Set(ContextRoleKey, role)
			return next(c)
		}
	}
}

// RequireRoles пропускает запрос только для перечисленных ролей.
func RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := RoleFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing role")
			}

			if !HasRole(role, roles...) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}

			return next(c)
		}
	}
}

// HasRole проверяет вхождение роли в список.
func HasRole(role models.Role, allowed ...models.Role) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}

// UserIDFromContext извлекает идентификатор пользователя из контекста.
func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(ContextUserIDKey)
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// RoleFromContext извлекает роль пользователя из контекста.
func RoleFromContext(c echo.Context) (models.Role, bool) {
	value := c.Get(ContextRoleKey)
	role, ok := value.(models.Role)
	return role, ok
}
