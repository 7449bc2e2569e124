package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/events"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/repository"
	apperrors "github.com/suttonsam862/RichHabitsOMS-sub001/pkg/util/errorutil"
)

// Machine is the single entry point for workflow status changes. Every
// accepted transition is written through the repositories, recorded in the
// order history, and emits exactly one domain event; rejected requests mutate
// nothing and emit nothing.
type Machine struct {
	orders     repository.OrderRepository
	tasks      repository.TaskRepository
	history    repository.OrderHistoryRepository
	dispatcher events.Dispatcher
}

// Dependencies bundles the machine's collaborators.
type Dependencies struct {
	OrderRepo   repository.OrderRepository
	TaskRepo    repository.TaskRepository
	HistoryRepo repository.OrderHistoryRepository
	Dispatcher  events.Dispatcher
}

// NewMachine constructs the workflow machine.
func NewMachine(deps Dependencies) *Machine {
	return &Machine{
		orders:     deps.OrderRepo,
		tasks:      deps.TaskRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// RequestOrderTransition validates and applies a status change on an order.
func (m *Machine) RequestOrderTransition(ctx context.Context, actor *domain.User, orderID string, target domain.OrderStatus, notes string) (*domain.Order, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	order, err := m.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
		}
		return nil, apperrors.MapError(err)
	}
	if !OrderTransitionAllowed(order.Status, target) {
		return nil, apperrors.NewInvalidTransition(string(order.Status), string(target), map[string]any{"order_id": order.ID})
	}
	if !CanRequestOrderTransition(actor, order, target) {
		return nil, apperrors.NewForbidden("actor may not request this order transition")
	}
	if err := m.applyOrderTransition(ctx, actor, order, target, notes); err != nil {
		return nil, err
	}
	return order, nil
}

// RequestTaskTransition validates and applies a status change on a task. A
// rejection stores the task back at in_progress and records the notes; an
// approval while the parent order sits in design_review advances the order to
// design_approved; a submission while the order awaits design work advances
// the order to design_review. Cascaded order advances are accepted
// transitions in their own right and emit their own event.
func (m *Machine) RequestTaskTransition(ctx context.Context, actor *domain.User, taskID string, target domain.TaskStatus, notes string) (*domain.Task, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	task, err := m.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, apperrors.MapError(err)
	}
	order, err := m.orders.GetByID(ctx, task.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": task.OrderID})
		}
		return nil, apperrors.MapError(err)
	}
	if !TaskTransitionAllowed(task.Status, target) {
		return nil, apperrors.NewInvalidTransition(string(task.Status), string(target), map[string]any{"task_id": task.ID})
	}
	if !CanRequestTaskTransition(actor, task, target) {
		return nil, apperrors.NewForbidden("actor may not request this task transition")
	}

	oldStatus := task.Status
	task.Status = AppliedTaskStatus(target)
	if target == domain.TaskStatusRejected {
		task.RejectionNotes = notes
	}
	if err := m.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := m.recordTaskChange(ctx, actor.ID, task, oldStatus, notes); err != nil {
		return nil, apperrors.MapError(err)
	}
	m.publishEvent(ctx, events.Event{
		Type:    TaskEventType(task.Kind, target),
		OrderID: order.ID,
		TaskID:  &task.ID,
		Actor:   events.Actor{UserID: actor.ID, Role: actor.Role},
		Notes:   notes,
		Payload: events.TaskStatusChangedPayload{
			Kind:      task.Kind,
			OldStatus: oldStatus,
			NewStatus: task.Status,
		},
	})

	switch {
	case target == domain.TaskStatusApproved && order.Status == domain.OrderStatusDesignReview:
		if err := m.applyOrderTransition(ctx, actor, order, domain.OrderStatusDesignApproved, notes); err != nil {
			return nil, err
		}
	case target == domain.TaskStatusSubmitted &&
		(order.Status == domain.OrderStatusPendingDesign || order.Status == domain.OrderStatusDesignInProgress):
		if err := m.applyOrderTransition(ctx, actor, order, domain.OrderStatusDesignReview, notes); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// applyOrderTransition writes an order status change that already passed
// validation (or originates from a task cascade, which the table still
// guards), records history, and emits the order event.
func (m *Machine) applyOrderTransition(ctx context.Context, actor *domain.User, order *domain.Order, target domain.OrderStatus, notes string) error {
	if !OrderTransitionAllowed(order.Status, target) {
		return apperrors.NewInvalidTransition(string(order.Status), string(target), map[string]any{"order_id": order.ID})
	}
	oldStatus := order.Status
	order.Status = target
	if target == domain.OrderStatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	}
	if err := m.orders.Update(ctx, order); err != nil {
		return apperrors.MapError(err)
	}
	if err := m.recordOrderChange(ctx, actor.ID, order, oldStatus, notes); err != nil {
		return apperrors.MapError(err)
	}
	m.publishEvent(ctx, events.Event{
		Type:    events.EventOrderStatusChanged,
		OrderID: order.ID,
		Actor:   events.Actor{UserID: actor.ID, Role: actor.Role},
		Notes:   notes,
		Payload: events.OrderStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: order.Status,
		},
	})
	return nil
}

func (m *Machine) recordOrderChange(ctx context.Context, actorID string, order *domain.Order, oldStatus domain.OrderStatus, notes string) error {
	if m.history == nil {
		return nil
	}
	return m.history.Create(ctx, &domain.OrderHistory{
		OrderID:    order.ID,
		ActorID:    &actorID,
		ChangeType: domain.ChangeTypeOrderStatus,
		OldValue: map[string]any{
			"status": oldStatus,
		},
		NewValue: map[string]any{
			"status": order.Status,
			"notes":  notes,
		},
	})
}

func (m *Machine) recordTaskChange(ctx context.Context, actorID string, task *domain.Task, oldStatus domain.TaskStatus, notes string) error {
	if m.history == nil {
		return nil
	}
	return m.history.Create(ctx, &domain.OrderHistory{
		OrderID:    task.OrderID,
		TaskID:     &task.ID,
		ActorID:    &actorID,
		ChangeType: domain.ChangeTypeTaskStatus,
		OldValue: map[string]any{
			"status": oldStatus,
		},
		NewValue: map[string]any{
			"status": task.Status,
			"notes":  notes,
		},
	})
}

func (m *Machine) publishEvent(ctx context.Context, event events.Event) {
	if m.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = m.dispatcher.Publish(ctx, event)
}
