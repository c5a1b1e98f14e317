package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// TestAuthenticateOrder проверяет порядок выполнения объединенных middleware.
func TestAuthenticateOrder(t *testing.T) {
	var calls []string
	step := func(name string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				calls = append(calls, name)
				return next(c)
			}
		}
	}

	handler := authenticate(step("jwt"), step("role"))(func(c echo.Context) error {
		calls = append(calls, "handler")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := handler(echo.New().NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Join(calls, ","); got != "jwt,role,handler" {
		t.Fatalf("unexpected order: %s", got)
	}
}
