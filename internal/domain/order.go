package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates lifecycle states for orders.
type OrderStatus string

const (
	OrderStatusDraft             OrderStatus = "draft"
	OrderStatusPendingDesign     OrderStatus = "pending_design"
	OrderStatusDesignInProgress  OrderStatus = "design_in_progress"
	OrderStatusDesignReview      OrderStatus = "design_review"
	OrderStatusDesignApproved    OrderStatus = "design_approved"
	OrderStatusPendingProduction OrderStatus = "pending_production"
	OrderStatusInProduction      OrderStatus = "in_production"
	OrderStatusCompleted         OrderStatus = "completed"
	OrderStatusCancelled         OrderStatus = "cancelled"
)

// Terminal reports whether no further transitions may leave the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order is the aggregate for a custom-clothing purchase. Assignment fields
// are mutable independent of status; orders are never physically deleted
// while tasks or payments reference them.
type Order struct {
	ID             string
	ExternalKey    string
	CustomerID     string
	SalespersonID  *string
	DesignerID     *string
	ManufacturerID *string
	Title          string
	Notes          string
	Status         OrderStatus
	QuotedPrice    decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}
