package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/api/dto"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/auth"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/service"
	apperrors "github.com/suttonsam862/RichHabitsOMS-sub001/pkg/util/errorutil"
)

// TasksHandler manages task endpoints.
type TasksHandler struct {
	service *service.OrderService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(orderService *service.OrderService) *TasksHandler {
	return &TasksHandler{service: orderService}
}

// Get GET /tasks/:id.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	task, err := h.service.GetTask(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// UpdateStatus POST /tasks/:id/status.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	task, err := h.service.RequestTaskTransition(c.Context(), actor, c.Params("id"), domain.TaskStatus(req.Status), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// AttachFile POST /tasks/:id/files.
func (h *TasksHandler) AttachFile(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AttachFileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StorageKey == "" || req.FileName == "" {
		return apperrors.NewValidationError("storage_key and file_name required", nil)
	}

	task, file, err := h.service.AttachTaskFile(c.Context(), actor, c.Params("id"), service.TaskFileInput{
		StorageKey: req.StorageKey,
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"task": taskResponse(task),
			"file": taskFileResponse(file),
		},
	})
}

func taskResponse(task *domain.Task) dto.TaskResponse {
	files := make([]dto.TaskFileResponse, 0, len(task.Files))
	for i := range task.Files {
		files = append(files, taskFileResponse(&task.Files[i]))
	}
	return dto.TaskResponse{
		ID:             task.ID,
		OrderID:        task.OrderID,
		Kind:           task.Kind,
		AssigneeID:     task.AssigneeID,
		Status:         task.Status,
		Description:    task.Description,
		Notes:          task.Notes,
		RejectionNotes: task.RejectionNotes,
		Files:          files,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

func taskFileResponse(file *domain.TaskFile) dto.TaskFileResponse {
	return dto.TaskFileResponse{
		ID:         file.ID,
		StorageKey: file.StorageKey,
		FileName:   file.FileName,
		MimeType:   file.MimeType,
		SizeBytes:  file.SizeBytes,
		UploadedBy: file.UploadedBy,
		CreatedAt:  file.CreatedAt,
	}
}
