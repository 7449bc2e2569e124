package domain

import "time"

// TaskKind distinguishes design work from production work.
type TaskKind string

const (
	TaskKindDesign     TaskKind = "design"
	TaskKindProduction TaskKind = "production"
)

// TaskStatus enumerates lifecycle states for design/production tasks.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusSubmitted  TaskStatus = "submitted"
	TaskStatusApproved   TaskStatus = "approved"
	TaskStatusRejected   TaskStatus = "rejected"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Terminal reports whether no further transitions may leave the status.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Task is a unit of design or production work against an order, owned by the
// assigned designer or manufacturer.
type Task struct {
	ID             string
	OrderID        string
	Kind           TaskKind
	AssigneeID     *string
	Status         TaskStatus
	Description    string
	Notes          string
	RejectionNotes string
	Files          []TaskFile
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskFile stores metadata for a file reference attached to a task. The file
// bytes themselves live in external storage and are opaque here.
type TaskFile struct {
	ID         string
	TaskID     string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	UploadedBy string
	CreatedAt  time.Time
}
