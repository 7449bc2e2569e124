package events

import (
	"time"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDesignSubmitted     EventType = "design_submitted"
	EventDesignApproved      EventType = "design_approved"
	EventDesignRejected      EventType = "design_rejected"
	EventProductionSubmitted EventType = "production_submitted"
	EventProductionApproved  EventType = "production_approved"
	EventProductionRejected  EventType = "production_rejected"
	EventTaskStatusChanged   EventType = "task_status_changed"
	EventOrderStatusChanged  EventType = "order_status_changed"
)

// Actor identifies who requested the transition that produced an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event is a domain event emitted by the workflow machine. Every accepted
// transition produces exactly one event.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	OrderID   string    `json:"order_id"`
	TaskID    *string   `json:"task_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TaskStatusChangedPayload payload for task lifecycle events.
type TaskStatusChangedPayload struct {
	Kind      domain.TaskKind   `json:"kind"`
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
}

// OrderStatusChangedPayload payload for order lifecycle events.
type OrderStatusChangedPayload struct {
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}
