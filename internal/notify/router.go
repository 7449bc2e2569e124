package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/realtime"
)

// Outcome reports which delivery path carried a payload.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeFallback  Outcome = "fallback"
)

// Broadcaster is the registry surface the router needs. *realtime.Registry
// satisfies it.
type Broadcaster interface {
	Send(userID string, envelope realtime.Envelope) bool
}

// Fallback is the offline delivery path invoked when no live handle accepts
// a payload. *FallbackNotifier satisfies it.
type Fallback interface {
	NotifyEvent(ctx context.Context, recipientID string, n Notification) error
	NotifyMessage(ctx context.Context, msg *domain.Message) error
}

// Router attempts live delivery first and falls back to email when the
// recipient holds no working connection. The two paths are mutually
// exclusive: a recipient never gets both the live push and the email for the
// same payload.
type Router struct {
	registry Broadcaster
	fallback Fallback
	logger   *zap.Logger
}

// NewRouter constructs a router.
func NewRouter(registry Broadcaster, fallback Fallback, logger *zap.Logger) *Router {
	return &Router{
		registry: registry,
		fallback: fallback,
		logger:   logger,
	}
}

// Route pushes a notification to the recipient's live handles; when none
// accepts it, the fallback notifier is invoked exactly once.
func (r *Router) Route(ctx context.Context, recipientID string, n Notification) Outcome {
	envelope, err := realtime.NewEnvelope(realtime.FrameNotification, n)
	if err != nil {
		r.logger.Error("encode notification frame",
			zap.String("recipient_id", recipientID),
			zap.Error(err))
	} else if r.registry.Send(recipientID, envelope) {
		return OutcomeDelivered
	}
	if err := r.fallback.NotifyEvent(ctx, recipientID, n); err != nil {
		r.logger.Warn("notification fallback failed",
			zap.String("recipient_id", recipientID),
			zap.String("notification_id", n.ID),
			zap.Error(err))
	}
	return OutcomeFallback
}

// RouteMessage pushes a direct message to its receiver's live handles, using
// the email fallback (with the at-most-once marker) when the receiver is
// offline.
func (r *Router) RouteMessage(ctx context.Context, msg *domain.Message) Outcome {
	envelope, err := realtime.NewEnvelope(realtime.FrameNewMessage, msg)
	if err != nil {
		r.logger.Error("encode message frame",
			zap.String("message_id", msg.ID),
			zap.Error(err))
	} else if r.registry.Send(msg.ReceiverID, envelope) {
		return OutcomeDelivered
	}
	if err := r.fallback.NotifyMessage(ctx, msg); err != nil {
		r.logger.Warn("message fallback failed",
			zap.String("message_id", msg.ID),
			zap.Error(err))
	}
	return OutcomeFallback
}
