package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/events"
)

func composerOrder() *domain.Order {
	salespersonID := "sales-1"
	designerID := "designer-1"
	return &domain.Order{
		ID:            "order-1",
		ExternalKey:   "ORD-AB12CD34",
		CustomerID:    "cust-1",
		SalespersonID: &salespersonID,
		DesignerID:    &designerID,
		Status:        domain.OrderStatusDesignReview,
	}
}

func composerTask() *domain.Task {
	assigneeID := "designer-1"
	return &domain.Task{
		ID:         "task-1",
		OrderID:    "order-1",
		Kind:       domain.TaskKindDesign,
		AssigneeID: &assigneeID,
		Status:     domain.TaskStatusSubmitted,
	}
}

func recipientIDs(addressed []Addressed) []string {
	out := make([]string, 0, len(addressed))
	for _, a := range addressed {
		out = append(out, a.RecipientID)
	}
	return out
}

func TestComposeDesignSubmittedNotifiesSalespersonAndCustomer(t *testing.T) {
	taskID := "task-1"
	event := events.Event{
		ID:        "evt-1",
		Type:      events.EventDesignSubmitted,
		OrderID:   "order-1",
		TaskID:    &taskID,
		Timestamp: time.Now(),
	}

	addressed := Compose(event, composerOrder(), composerTask())

	assert.ElementsMatch(t, []string{"sales-1", "cust-1"}, recipientIDs(addressed))
	for _, a := range addressed {
		assert.Contains(t, a.Notification.Subject, "ORD-AB12CD34")
		assert.Equal(t, events.EventDesignSubmitted, a.Notification.Type)
		assert.Equal(t, "order-1", a.Notification.OrderID)
		require.NotNil(t, a.Notification.TaskID)
		assert.Equal(t, "task-1", *a.Notification.TaskID)
	}
}

func TestComposeDesignSubmittedWithoutSalesperson(t *testing.T) {
	order := composerOrder()
	order.SalespersonID = nil
	event := events.Event{ID: "evt-1", Type: events.EventDesignSubmitted, OrderID: "order-1"}

	addressed := Compose(event, order, composerTask())

	assert.Equal(t, []string{"cust-1"}, recipientIDs(addressed),
		"an unassigned salesperson slot is skipped, not an error")
}

func TestComposeRejectionTargetsAssigneeWithVerbatimNotes(t *testing.T) {
	notes := "wrong colors, customer wanted navy"
	event := events.Event{
		ID:      "evt-1",
		Type:    events.EventDesignRejected,
		OrderID: "order-1",
		Notes:   notes,
	}

	addressed := Compose(event, composerOrder(), composerTask())

	require.Len(t, addressed, 1)
	assert.Equal(t, "designer-1", addressed[0].RecipientID)
	assert.Equal(t, notes, addressed[0].Notification.Notes)
	assert.Contains(t, addressed[0].Notification.Body, notes)
}

func TestComposeApprovalTargetsAssignee(t *testing.T) {
	event := events.Event{ID: "evt-1", Type: events.EventDesignApproved, OrderID: "order-1"}

	addressed := Compose(event, composerOrder(), composerTask())

	require.Len(t, addressed, 1)
	assert.Equal(t, "designer-1", addressed[0].RecipientID)
}

func TestComposeProductionMirrorsDesignRouting(t *testing.T) {
	order := composerOrder()
	task := composerTask()
	task.Kind = domain.TaskKindProduction
	assigneeID := "maker-1"
	task.AssigneeID = &assigneeID

	submitted := Compose(events.Event{ID: "evt-1", Type: events.EventProductionSubmitted, OrderID: "order-1"}, order, task)
	assert.ElementsMatch(t, []string{"sales-1", "cust-1"}, recipientIDs(submitted))

	approved := Compose(events.Event{ID: "evt-2", Type: events.EventProductionApproved, OrderID: "order-1"}, order, task)
	assert.Equal(t, []string{"maker-1"}, recipientIDs(approved))

	rejected := Compose(events.Event{ID: "evt-3", Type: events.EventProductionRejected, OrderID: "order-1", Notes: "stitching"}, order, task)
	require.Len(t, rejected, 1)
	assert.Equal(t, "maker-1", rejected[0].RecipientID)
	assert.Contains(t, rejected[0].Notification.Body, "stitching")
}

func TestComposeOrderStatusChangeNotifiesCustomer(t *testing.T) {
	event := events.Event{
		ID:      "evt-1",
		Type:    events.EventOrderStatusChanged,
		OrderID: "order-1",
		Payload: events.OrderStatusChangedPayload{
			OldStatus: domain.OrderStatusDesignReview,
			NewStatus: domain.OrderStatusDesignApproved,
		},
	}

	addressed := Compose(event, composerOrder(), nil)

	require.Len(t, addressed, 1)
	assert.Equal(t, "cust-1", addressed[0].RecipientID)
	assert.Contains(t, addressed[0].Notification.Body, string(domain.OrderStatusDesignApproved))
}

func TestComposeUnknownEventYieldsNothing(t *testing.T) {
	event := events.Event{ID: "evt-1", Type: events.EventType("something_new"), OrderID: "order-1"}
	assert.Empty(t, Compose(event, composerOrder(), composerTask()))
}

func TestComposeNilOrderYieldsNothing(t *testing.T) {
	event := events.Event{ID: "evt-1", Type: events.EventDesignSubmitted}
	assert.Empty(t, Compose(event, nil, composerTask()))
}

func TestComposeMissingTaskAssigneeYieldsNothing(t *testing.T) {
	task := composerTask()
	task.AssigneeID = nil
	event := events.Event{ID: "evt-1", Type: events.EventDesignApproved, OrderID: "order-1"}

	assert.Empty(t, Compose(event, composerOrder(), task))
}

func TestComposeFallsBackToOrderIDWithoutExternalKey(t *testing.T) {
	order := composerOrder()
	order.ExternalKey = ""
	event := events.Event{ID: "evt-1", Type: events.EventDesignApproved, OrderID: "order-1"}

	addressed := Compose(event, order, composerTask())

	require.Len(t, addressed, 1)
	assert.Contains(t, addressed[0].Notification.Subject, "order-1")
}
