// Package ws upgrades authenticated clients to live connections and runs the
// per-session frame loop.
package ws

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/auth"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/config"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/realtime"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/service"
	apperrors "github.com/suttonsam862/RichHabitsOMS-sub001/pkg/util/errorutil"
)

const sessionUserKey = "ws_user"

// Handler owns the websocket handshake and session lifecycle.
type Handler struct {
	auth     *auth.Middleware
	registry *realtime.Registry
	messages *service.MessageService
	cfg      config.RealtimeConfig
	logger   *zap.Logger
}

// NewHandler wires the websocket endpoint.
func NewHandler(authMw *auth.Middleware, registry *realtime.Registry, messages *service.MessageService, cfg config.RealtimeConfig, logger *zap.Logger) *Handler {
	return &Handler{
		auth:     authMw,
		registry: registry,
		messages: messages,
		cfg:      cfg,
		logger:   logger,
	}
}

// Upgrade gates the endpoint on a websocket upgrade request carrying a valid
// token. The token may arrive as a `?token=` query parameter or a bearer
// header. A failed handshake is rejected before the protocol switch, so
// nothing is ever registered for it.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return apperrors.NewDomainError("UPGRADE_REQUIRED", "websocket upgrade required", fiber.StatusUpgradeRequired, nil)
	}

	token := c.Query("token")
	if token == "" {
		if bearer, ok := auth.BearerFromHeader(c.Get(fiber.HeaderAuthorization)); ok {
			token = bearer
		}
	}
	if token == "" {
		return apperrors.NewUnauthorized("missing authentication token")
	}

	user, err := h.auth.ResolveUser(c, token)
	if err != nil {
		return err
	}

	c.Locals(sessionUserKey, user)
	return c.Next()
}

// Session returns the handler that runs after a successful upgrade.
func (h *Handler) Session() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		user, ok := conn.Locals(sessionUserKey).(*domain.User)
		if !ok || user == nil {
			_ = conn.Close()
			return
		}
		h.runSession(user, conn)
	})
}

func (h *Handler) runSession(user *domain.User, conn *websocket.Conn) {
	if h.cfg.MaxFrameBytes > 0 {
		conn.SetReadLimit(h.cfg.MaxFrameBytes)
	}

	session := realtime.NewSessionConn(conn, h.cfg.WriteTimeout())
	h.registry.Register(user.ID, session)
	h.logger.Info("websocket session opened",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))

	defer func() {
		h.registry.Unregister(user.ID, session)
		_ = session.Close()
		h.logger.Info("websocket session closed", zap.String("user_id", user.ID))
	}()

	ack, err := realtime.NewEnvelope(realtime.FrameConnected, realtime.ConnectedPayload{UserID: user.ID})
	if err == nil {
		if err := session.WriteJSON(ack); err != nil {
			return
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.handleFrame(user, data)
	}
}

// handleFrame processes one inbound frame. Malformed or unknown frames are
// logged and dropped without tearing down the session.
func (h *Handler) handleFrame(user *domain.User, data []byte) {
	var envelope realtime.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		h.logger.Warn("dropping malformed frame",
			zap.String("user_id", user.ID),
			zap.Error(err))
		return
	}

	switch envelope.Type {
	case realtime.FrameSendMessage:
		h.handleSendMessage(user, envelope.Payload)
	default:
		h.logger.Debug("dropping unknown frame type",
			zap.String("user_id", user.ID),
			zap.String("type", envelope.Type))
	}
}

func (h *Handler) handleSendMessage(user *domain.User, payload json.RawMessage) {
	var body realtime.SendMessagePayload
	if err := json.Unmarshal(payload, &body); err != nil {
		h.logger.Warn("dropping malformed send_message payload",
			zap.String("user_id", user.ID),
			zap.Error(err))
		return
	}

	input := service.MessageSendInput{
		ReceiverID: body.ReceiverID,
		Content:    body.Content,
		OrderID:    body.OrderID,
		TaskID:     body.TaskID,
	}
	if _, _, err := h.messages.SendMessage(context.Background(), user.ID, input); err != nil {
		h.logger.Warn("inbound message rejected",
			zap.String("sender_id", user.ID),
			zap.String("receiver_id", body.ReceiverID),
			zap.Error(err))
	}
}
