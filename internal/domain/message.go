package domain

import "time"

// Message is a direct user-to-user communication, optionally linked to an
// order or task. EmailFallbackUsed flips false to true at most once, when the
// receiver had no live connection and an email was dispatched instead; it is
// never reset.
type Message struct {
	ID                string
	SenderID          string
	ReceiverID        string
	Content           string
	OrderID           *string
	TaskID            *string
	EmailFallbackUsed bool
	CreatedAt         time.Time
}
