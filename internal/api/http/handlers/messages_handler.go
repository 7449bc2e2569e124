package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/api/dto"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/auth"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/service"
	apperrors "github.com/suttonsam862/RichHabitsOMS-sub001/pkg/util/errorutil"
)

// MessagesHandler manages direct-message endpoints.
type MessagesHandler struct {
	service *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{service: messageService}
}

// Send POST /messages.
func (h *MessagesHandler) Send(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ReceiverID == "" || strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("receiver_id and content required", nil)
	}

	msg, outcome, err := h.service.SendMessage(c.Context(), actor.ID, service.MessageSendInput{
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		OrderID:    req.OrderID,
		TaskID:     req.TaskID,
	})
	if err != nil {
		return err
	}
	resp := messageResponse(msg)
	resp.Delivery = string(outcome)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// Conversation GET /messages/:userID.
func (h *MessagesHandler) Conversation(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page := parseIntQuery(c.Query("page"), 1)
	pageSize := parseIntQuery(c.Query("page_size"), 50)

	msgs, err := h.service.ListConversation(c.Context(), actor.ID, c.Params("userID"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, messageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:                msg.ID,
		SenderID:          msg.SenderID,
		ReceiverID:        msg.ReceiverID,
		Content:           msg.Content,
		OrderID:           msg.OrderID,
		TaskID:            msg.TaskID,
		EmailFallbackUsed: msg.EmailFallbackUsed,
		CreatedAt:         msg.CreatedAt,
	}
}
