package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
)

// CreateOrderRequest is the intake payload. CustomerID is required only when
// a staff member opens the order on a customer's behalf.
type CreateOrderRequest struct {
	CustomerID  string          `json:"customer_id"`
	Title       string          `json:"title"`
	Notes       string          `json:"notes"`
	QuotedPrice decimal.Decimal `json:"quoted_price"`
}

// AssignOrderRequest updates participants and pricing; nil fields are
// untouched.
type AssignOrderRequest struct {
	SalespersonID  *string          `json:"salesperson_id"`
	DesignerID     *string          `json:"designer_id"`
	ManufacturerID *string          `json:"manufacturer_id"`
	QuotedPrice    *decimal.Decimal `json:"quoted_price"`
}

// TransitionRequest asks for a workflow status change.
type TransitionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// OrderSummary is the list view of an order.
type OrderSummary struct {
	ID             string             `json:"id"`
	ExternalKey    string             `json:"external_key"`
	CustomerID     string             `json:"customer_id"`
	SalespersonID  *string            `json:"salesperson_id,omitempty"`
	DesignerID     *string            `json:"designer_id,omitempty"`
	ManufacturerID *string            `json:"manufacturer_id,omitempty"`
	Title          string             `json:"title"`
	Status         domain.OrderStatus `json:"status"`
	QuotedPrice    decimal.Decimal    `json:"quoted_price"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
}

// OrderDetailResponse is the single-order view with its tasks.
type OrderDetailResponse struct {
	OrderSummary
	Notes string         `json:"notes"`
	Tasks []TaskResponse `json:"tasks"`
}

// OrderHistoryResponse is one entry of the order change trail.
type OrderHistoryResponse struct {
	ID         string                 `json:"id"`
	TaskID     *string                `json:"task_id,omitempty"`
	ActorID    *string                `json:"actor_id,omitempty"`
	ChangeType domain.OrderChangeType `json:"change_type"`
	OldValue   map[string]any         `json:"old_value,omitempty"`
	NewValue   map[string]any         `json:"new_value,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}
