package domain

import "time"

// OrderChangeType captures what changed in a history entry.
type OrderChangeType string

const (
	ChangeTypeOrderStatus OrderChangeType = "order_status_change"
	ChangeTypeTaskStatus  OrderChangeType = "task_status_change"
	ChangeTypeAssignment  OrderChangeType = "assignment_change"
)

// OrderHistory is an immutable audit trail entry written for every accepted
// workflow transition and assignment change.
type OrderHistory struct {
	ID         string
	OrderID    string
	TaskID     *string
	ActorID    *string
	ChangeType OrderChangeType
	OldValue   map[string]any
	NewValue   map[string]any
	CreatedAt  time.Time
}
