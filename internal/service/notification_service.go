package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/events"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/notify"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/observability"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/repository"
)

// NotificationService turns domain events into addressed notifications and
// routes them per recipient.
type NotificationService struct {
	dispatcher events.Dispatcher
	orders     repository.OrderRepository
	tasks      repository.TaskRepository
	router     *notify.Router
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(
	dispatcher events.Dispatcher,
	orders repository.OrderRepository,
	tasks repository.TaskRepository,
	router *notify.Router,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		orders:     orders,
		tasks:      tasks,
		router:     router,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every event type the composer knows.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventDesignSubmitted,
		events.EventDesignApproved,
		events.EventDesignRejected,
		events.EventProductionSubmitted,
		events.EventProductionApproved,
		events.EventProductionRejected,
		events.EventOrderStatusChanged,
	} {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	order, err := n.orders.GetByID(ctx, event.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			n.logger.Warn("event references missing order",
				zap.String("event_id", event.ID),
				zap.String("order_id", event.OrderID))
			return nil
		}
		return err
	}

	var task *domain.Task
	if event.TaskID != nil {
		task, err = n.tasks.GetByID(ctx, *event.TaskID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}

	for _, addressed := range notify.Compose(event, order, task) {
		outcome := n.router.Route(ctx, addressed.RecipientID, addressed.Notification)
		n.metrics.RecordDelivery(string(outcome))
		n.logger.Info("notification routed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("recipient_id", addressed.RecipientID),
			zap.String("outcome", string(outcome)))
	}
	return nil
}
