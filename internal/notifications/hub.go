package notifications

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventConnected     EventType = "connected"
	EventPlanGenerated EventType = "diet_plan_generated"
	EventPlanUpdated   EventType = "diet_plan_updated"
	EventPlanDeleted   EventType = "diet_plan_deleted"
)

// subscriberBuffer ограничивает число недоставленных событий на подписку.
const subscriberBuffer = 16

type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// PlanEvent описывает изменение плана питания для клиентов.
type PlanEvent struct {
	PlanID        uuid.UUID `json:"plan_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	DominantDosha *string   `json:"dominant_dosha,omitempty"`
}

type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

// Subscribe подписывает пользователя на события и возвращает канал и функцию отписки.
// Функцию отписки можно вызывать повторно.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	userSubs, ok := h.subscribers[userID]
	if !ok {
		userSubs = make(map[chan Event]struct{})
		h.subscribers[userID] = userSubs
	}
	userSubs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if subs, exists := h.subscribers[userID]; exists {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, userID)
				}
			}
			close(ch)
		})
	}
}

// Publish отправляет событие всем подпискам перечисленных пользователей.
// Повторы в списке получателей игнорируются, переполненные подписки пропускают событие.
func (h *Hub) Publish(event Event, recipients ...uuid.UUID) {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{}, len(recipients))
	for _, userID := range recipients {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		for ch := range h.subscribers[userID] {
			select {
			case ch <- event:
			default:
				slog.Debug("notification dropped",
					slog.String("user_id", userID.String()),
					slog.String("type", string(event.Type)),
				)
			}
		}
	}
}

// Subscribers возвращает число активных подписок пользователя.
func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}
