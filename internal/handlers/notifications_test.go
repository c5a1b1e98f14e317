package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/notifications"
)

// TestStreamDeliversAndUnsubscribes проверяет доставку событий и отписку при закрытии потока.
func TestStreamDeliversAndUnsubscribes(t *testing.T) {
	hub := notifications.NewHub()
	handler := NewNotificationHandler(hub)
	userID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set(auth.ContextUserIDKey, userID)

	done := make(chan error, 1)
	go func() {
		done <- handler.Stream(c)
	}()

	deadline := time.Now().Add(time.Second)
	for hub.Subscribers(userID) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("stream did not subscribe")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish(notifications.Event{Type: notifications.EventPlanGenerated}, userID)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after cancel")
	}

	if hub.Subscribers(userID) != 0 {
		t.Fatalf("expected no subscribers, got %d", hub.Subscribers(userID))
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: connected") || !strings.Contains(body, "event: diet_plan_generated") {
		t.Fatalf("unexpected stream body: %s", body)
	}
}
