package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/notify"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/repository"
	apperrors "github.com/suttonsam862/RichHabitsOMS-sub001/pkg/util/errorutil"
)

// MessageSendInput describes a direct message payload.
type MessageSendInput struct {
	ReceiverID string
	Content    string
	OrderID    *string
	TaskID     *string
}

// MessageService persists direct messages and hands them to the delivery
// router: live push when the receiver is connected, email fallback otherwise.
type MessageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	router   *notify.Router
	logger   *zap.Logger
}

// NewMessageService constructs the service.
func NewMessageService(messages repository.MessageRepository, users repository.UserRepository, router *notify.Router, logger *zap.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		router:   router,
		logger:   logger,
	}
}

// SendMessage stores the message then routes it. The routing outcome is
// returned so callers can surface which path carried the message.
func (s *MessageService) SendMessage(ctx context.Context, senderID string, input MessageSendInput) (*domain.Message, notify.Outcome, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, "", apperrors.NewValidationError("content is required", nil)
	}
	if input.ReceiverID == senderID {
		return nil, "", apperrors.NewValidationError("cannot message yourself", nil)
	}
	if _, err := s.users.GetByID(ctx, input.ReceiverID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.NewNotFound("user", map[string]any{"user_id": input.ReceiverID})
		}
		return nil, "", apperrors.MapError(err)
	}

	msg := &domain.Message{
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		Content:    content,
		OrderID:    input.OrderID,
		TaskID:     input.TaskID,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, "", apperrors.MapError(err)
	}

	outcome := s.router.RouteMessage(ctx, msg)
	s.logger.Info("message routed",
		zap.String("message_id", msg.ID),
		zap.String("receiver_id", msg.ReceiverID),
		zap.String("outcome", string(outcome)))
	return msg, outcome, nil
}

// ListConversation returns the two-party thread, newest first.
func (s *MessageService) ListConversation(ctx context.Context, userID, otherID string, limit, offset int) ([]domain.Message, error) {
	msgs, err := s.messages.ListConversation(ctx, userID, otherID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}
