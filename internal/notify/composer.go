package notify

import (
	"fmt"
	"time"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/events"
)

// Notification is the payload pushed to a recipient, either over a live
// connection or rendered into a fallback email.
type Notification struct {
	ID      string           `json:"id"`
	Type    events.EventType `json:"type"`
	OrderID string           `json:"order_id"`
	TaskID  *string          `json:"task_id,omitempty"`
	Subject string           `json:"subject"`
	Body    string           `json:"body"`
	Notes   string           `json:"notes,omitempty"`
	SentAt  time.Time        `json:"sent_at"`
}

// Addressed pairs a notification with the user it is meant for.
type Addressed struct {
	RecipientID  string
	Notification Notification
}

// Compose expands a domain event into per-recipient notifications. It is a
// pure function of its inputs: recipients come from the order and task
// references, rejection notes are carried verbatim, and event types outside
// the table compose to nothing. Delivery belongs to the Router.
func Compose(event events.Event, order *domain.Order, task *domain.Task) []Addressed {
	if order == nil {
		return nil
	}
	ref := orderRef(order)

	var (
		recipients []string
		subject    string
		body       string
	)
	switch event.Type {
	case events.EventDesignSubmitted:
		recipients = appendRecipient(recipients, order.SalespersonID)
		recipients = append(recipients, order.CustomerID)
		subject = fmt.Sprintf("Design ready for review on order %s", ref)
		body = fmt.Sprintf("A design for order %s has been submitted and is ready for review.", ref)
	case events.EventDesignApproved:
		recipients = taskAssignee(task)
		subject = fmt.Sprintf("Design approved on order %s", ref)
		body = fmt.Sprintf("Your design for order %s was approved.", ref)
	case events.EventDesignRejected:
		recipients = taskAssignee(task)
		subject = fmt.Sprintf("Design needs revision on order %s", ref)
		body = fmt.Sprintf("Your design for order %s needs revision.", ref)
		if event.Notes != "" {
			body = fmt.Sprintf("%s Notes: %s", body, event.Notes)
		}
	case events.EventProductionSubmitted:
		recipients = appendRecipient(recipients, order.SalespersonID)
		recipients = append(recipients, order.CustomerID)
		subject = fmt.Sprintf("Production work ready for review on order %s", ref)
		body = fmt.Sprintf("Production work for order %s has been submitted and is ready for review.", ref)
	case events.EventProductionApproved:
		recipients = taskAssignee(task)
		subject = fmt.Sprintf("Production work approved on order %s", ref)
		body = fmt.Sprintf("Your production work for order %s was approved.", ref)
	case events.EventProductionRejected:
		recipients = taskAssignee(task)
		subject = fmt.Sprintf("Production work needs revision on order %s", ref)
		body = fmt.Sprintf("Your production work for order %s needs revision.", ref)
		if event.Notes != "" {
			body = fmt.Sprintf("%s Notes: %s", body, event.Notes)
		}
	case events.EventOrderStatusChanged:
		recipients = append(recipients, order.CustomerID)
		subject = fmt.Sprintf("Order %s status updated", ref)
		body = fmt.Sprintf("Order %s status is now %s.", ref, orderStatusFromEvent(event, order))
	default:
		return nil
	}

	out := make([]Addressed, 0, len(recipients))
	for _, recipientID := range recipients {
		if recipientID == "" {
			continue
		}
		out = append(out, Addressed{
			RecipientID: recipientID,
			Notification: Notification{
				ID:      event.ID,
				Type:    event.Type,
				OrderID: order.ID,
				TaskID:  event.TaskID,
				Subject: subject,
				Body:    body,
				Notes:   event.Notes,
				SentAt:  event.Timestamp,
			},
		})
	}
	return out
}

func orderRef(order *domain.Order) string {
	if order.ExternalKey != "" {
		return order.ExternalKey
	}
	return order.ID
}

func appendRecipient(recipients []string, userID *string) []string {
	if userID == nil || *userID == "" {
		return recipients
	}
	return append(recipients, *userID)
}

func taskAssignee(task *domain.Task) []string {
	if task == nil || task.AssigneeID == nil || *task.AssigneeID == "" {
		return nil
	}
	return []string{*task.AssigneeID}
}

func orderStatusFromEvent(event events.Event, order *domain.Order) domain.OrderStatus {
	if payload, ok := event.Payload.(events.OrderStatusChangedPayload); ok {
		return payload.NewStatus
	}
	return order.Status
}
