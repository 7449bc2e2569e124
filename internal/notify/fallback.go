package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/repository"
)

// fallbackGuardTTL bounds how long an ephemeral notification's fallback
// marker lives. Events are short-lived; a day is far beyond any re-route.
const fallbackGuardTTL = 24 * time.Hour

// DedupeGuard remembers that a fallback was attempted for an ephemeral
// notification so a re-routed event does not produce a second email.
type DedupeGuard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type redisGuard struct {
	client *redis.Client
}

// NewRedisGuard returns a guard backed by redis SET NX.
func NewRedisGuard(client *redis.Client) DedupeGuard {
	return &redisGuard{client: client}
}

func (g *redisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.client.SetNX(ctx, key, "1", ttl).Result()
}

// FallbackNotifier sends email when live delivery fails. For direct messages
// the messages table's email_fallback_used column is flipped false→true at
// most once and gates the send; for ephemeral notifications the dedupe guard
// plays the same role. Provider failures are logged, never retried.
type FallbackNotifier struct {
	users    repository.UserRepository
	messages repository.MessageRepository
	guard    DedupeGuard
	sender   EmailSender
	logger   *zap.Logger
}

// NewFallbackNotifier constructs the notifier.
func NewFallbackNotifier(
	users repository.UserRepository,
	messages repository.MessageRepository,
	guard DedupeGuard,
	sender EmailSender,
	logger *zap.Logger,
) *FallbackNotifier {
	return &FallbackNotifier{
		users:    users,
		messages: messages,
		guard:    guard,
		sender:   sender,
		logger:   logger,
	}
}

// NotifyMessage emails the receiver of a direct message. The conditional
// marker update decides whether this call owns the send; once the marker is
// set the send counts as attempted even if the provider fails.
func (f *FallbackNotifier) NotifyMessage(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	marked, err := f.messages.MarkEmailFallbackUsed(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("mark email fallback: %w", err)
	}
	if !marked {
		f.logger.Debug("message fallback already attempted", zap.String("message_id", msg.ID))
		return nil
	}

	receiver, err := f.users.GetByID(ctx, msg.ReceiverID)
	if err != nil {
		return fmt.Errorf("resolve receiver %s: %w", msg.ReceiverID, err)
	}
	senderName := "a teammate"
	if sender, err := f.users.GetByID(ctx, msg.SenderID); err == nil {
		senderName = sender.Name
	}

	subject := fmt.Sprintf("New message from %s", senderName)
	text := fmt.Sprintf("%s sent you a message:\n\n%s", senderName, msg.Content)
	html := fmt.Sprintf("<p><strong>%s</strong> sent you a message:</p><p>%s</p>", senderName, msg.Content)
	f.deliver(ctx, receiver.Email, subject, text, html,
		zap.String("message_id", msg.ID),
		zap.String("receiver_id", msg.ReceiverID))
	return nil
}

// NotifyEvent emails the recipient of a system notification. The guard keyed
// by notification id and recipient keeps a re-routed event from sending a
// second email.
func (f *FallbackNotifier) NotifyEvent(ctx context.Context, recipientID string, n Notification) error {
	if f.guard != nil && n.ID != "" {
		key := fmt.Sprintf("notify:fallback:%s:%s", n.ID, recipientID)
		acquired, err := f.guard.Acquire(ctx, key, fallbackGuardTTL)
		if err != nil {
			f.logger.Warn("fallback dedupe guard unavailable",
				zap.String("notification_id", n.ID),
				zap.Error(err))
		} else if !acquired {
			f.logger.Debug("notification fallback already attempted",
				zap.String("notification_id", n.ID),
				zap.String("recipient_id", recipientID))
			return nil
		}
	}

	recipient, err := f.users.GetByID(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("resolve recipient %s: %w", recipientID, err)
	}

	text := n.Body
	html := fmt.Sprintf("<p>%s</p>", n.Body)
	f.deliver(ctx, recipient.Email, n.Subject, text, html,
		zap.String("notification_id", n.ID),
		zap.String("recipient_id", recipientID))
	return nil
}

func (f *FallbackNotifier) deliver(ctx context.Context, to, subject, text, html string, fields ...zap.Field) {
	ok, err := f.sender.Send(ctx, to, subject, text, html)
	if err != nil {
		f.logger.Warn("fallback email failed", append(fields, zap.Error(err))...)
		return
	}
	if !ok {
		f.logger.Warn("fallback email rejected by provider", fields...)
		return
	}
	f.logger.Info("fallback email sent", append(fields, zap.String("subject", subject))...)
}
