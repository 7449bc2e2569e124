package dto

import "time"

// SendMessageRequest is a direct user-to-user message.
type SendMessageRequest struct {
	ReceiverID string  `json:"receiver_id"`
	Content    string  `json:"content"`
	OrderID    *string `json:"order_id"`
	TaskID     *string `json:"task_id"`
}

// MessageResponse is the stored message plus which path delivered it.
type MessageResponse struct {
	ID                string    `json:"id"`
	SenderID          string    `json:"sender_id"`
	ReceiverID        string    `json:"receiver_id"`
	Content           string    `json:"content"`
	OrderID           *string   `json:"order_id,omitempty"`
	TaskID            *string   `json:"task_id,omitempty"`
	EmailFallbackUsed bool      `json:"email_fallback_used"`
	CreatedAt         time.Time `json:"created_at"`
	Delivery          string    `json:"delivery,omitempty"`
}
