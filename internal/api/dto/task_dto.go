package dto

import (
	"time"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
)

// CreateTaskRequest opens a design or production task under an order.
type CreateTaskRequest struct {
	Kind        string  `json:"kind"`
	AssigneeID  *string `json:"assignee_id"`
	Description string  `json:"description"`
	Notes       string  `json:"notes"`
}

// AttachFileRequest records an uploaded file reference against a task.
type AttachFileRequest struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// TaskFileResponse describes one attached file reference.
type TaskFileResponse struct {
	ID         string    `json:"id"`
	StorageKey string    `json:"storage_key"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// TaskResponse is the full view of a task.
type TaskResponse struct {
	ID             string             `json:"id"`
	OrderID        string             `json:"order_id"`
	Kind           domain.TaskKind    `json:"kind"`
	AssigneeID     *string            `json:"assignee_id,omitempty"`
	Status         domain.TaskStatus  `json:"status"`
	Description    string             `json:"description"`
	Notes          string             `json:"notes"`
	RejectionNotes string             `json:"rejection_notes,omitempty"`
	Files          []TaskFileResponse `json:"files"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
