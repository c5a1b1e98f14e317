package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/models"
	"example.com/ayur-diet-planner/backend/internal/notifications"
)

type NotificationHandler struct {
	Hub *notifications.Hub
}

// NewNotificationHandler создает SSE-обработчик уведомлений.
func NewNotificationHandler(hub *notifications.Hub) *NotificationHandler {
	return &NotificationHandler{Hub: hub}
}

// Stream открывает SSE-поток событий для пользователя.
func (h *NotificationHandler) Stream(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return serverError(c)
	}

	ch, unsubscribe := h.Hub.Subscribe(userID)
	defer func() {
		unsubscribe()
		slog.Debug("notification stream closed",
			slog.String("user_id", userID.String()),
			slog.Int("streams", h.Hub.Subscribers(userID)),
		)
	}()
	slog.Debug("notification stream opened",
		slog.String("user_id", userID.String()),
		slog.Int("streams", h.Hub.Subscribers(userID)),
	)

	_ = writeSSE(c, notifications.Event{Type: notifications.EventConnected, Data: map[string]string{"user_id": userID.String()}})
	flusher.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeSSE(c, event); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}

func writeSSE(c echo.Context, event notifications.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := c.Response().Write([]byte("event: " + string(event.Type) + "\n")); err != nil {
		return err
	}
	if _, err := c.Response().Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}

	return nil
}

// planRecipients возвращает автора изменения и учетную запись пациента без повторов.
func planRecipients(actor uuid.UUID, patient models.Patient) []uuid.UUID {
	recipients := []uuid.UUID{actor}
	if patient.UserID != nil && *patient.UserID != actor {
		recipients = append(recipients, *patient.UserID)
	}
	return recipients
}

func publishPlanEvent(hub *notifications.Hub, recipients []uuid.UUID, eventType notifications.EventType, plan models.DietPlan) {
	if hub == nil {
		return
	}

	hub.Publish(notifications.Event{
		Type: eventType,
		Data: notifications.PlanEvent{
			PlanID:        plan.ID,
			PatientID:     plan.PatientID,
			Name:          plan.Name,
			Status:        string(plan.Status),
			DominantDosha: plan.DominantDosha,
		},
	}, recipients...)
}
