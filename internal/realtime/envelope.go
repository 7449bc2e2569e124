package realtime

import "encoding/json"

// Envelope is the wire frame exchanged over live connections. Every frame,
// inbound or outbound, carries a type tag and a type-specific payload.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound frame types.
const (
	FrameConnected    = "connected"
	FrameNewMessage   = "new_message"
	FrameNotification = "notification"
)

// Inbound frame types.
const (
	FrameSendMessage = "send_message"
)

// NewEnvelope marshals the payload into a typed frame. Marshal failures
// surface to the caller; a frame with a broken payload is never sent.
func NewEnvelope(frameType string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: frameType, Payload: raw}, nil
}

// ConnectedPayload confirms a successful handshake to the client.
type ConnectedPayload struct {
	UserID string `json:"user_id"`
}

// SendMessagePayload is the body of an inbound send_message frame.
type SendMessagePayload struct {
	ReceiverID string  `json:"receiver_id"`
	Content    string  `json:"content"`
	OrderID    *string `json:"order_id,omitempty"`
	TaskID     *string `json:"task_id,omitempty"`
}
