package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/api/dto"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/auth"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/service"
	apperrors "github.com/suttonsam862/RichHabitsOMS-sub001/pkg/util/errorutil"
)

// OrdersHandler manages order endpoints.
type OrdersHandler struct {
	service *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{service: orderService}
}

// Create POST /orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("title required", nil)
	}

	order, err := h.service.CreateOrder(c.Context(), actor, service.OrderCreateInput{
		CustomerID:  req.CustomerID,
		Title:       req.Title,
		Notes:       req.Notes,
		QuotedPrice: req.QuotedPrice,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": orderSummary(order)})
}

// List GET /orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input := service.OrderListInput{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			input.Statuses = append(input.Statuses, domain.OrderStatus(strings.TrimSpace(part)))
		}
	}
	page := parseIntQuery(c.Query("page"), 1)
	pageSize := parseIntQuery(c.Query("page_size"), 20)
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize

	orders, err := h.service.ListOrders(c.Context(), actor, input)
	if err != nil {
		return err
	}
	items := make([]dto.OrderSummary, 0, len(orders))
	for i := range orders {
		items = append(items, orderSummary(&orders[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	order, tasks, err := h.service.GetOrder(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderDetail(order, tasks)})
}

// UpdateStatus POST /orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
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

	order, err := h.service.RequestOrderTransition(c.Context(), actor, c.Params("id"), domain.OrderStatus(req.Status), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderSummary(order)})
}

// Assign POST /orders/:id/assign.
func (h *OrdersHandler) Assign(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	order, err := h.service.Assign(c.Context(), actor, c.Params("id"), service.AssignInput{
		SalespersonID:  req.SalespersonID,
		DesignerID:     req.DesignerID,
		ManufacturerID: req.ManufacturerID,
		QuotedPrice:    req.QuotedPrice,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderSummary(order)})
}

// CreateTask POST /orders/:id/tasks.
func (h *OrdersHandler) CreateTask(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Kind == "" {
		return apperrors.NewValidationError("kind required", nil)
	}

	task, err := h.service.CreateTask(c.Context(), actor, c.Params("id"), service.TaskCreateInput{
		Kind:        domain.TaskKind(strings.ToLower(req.Kind)),
		AssigneeID:  req.AssigneeID,
		Description: req.Description,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": taskResponse(task)})
}

// History GET /orders/:id/history.
func (h *OrdersHandler) History(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page := parseIntQuery(c.Query("page"), 1)
	pageSize := parseIntQuery(c.Query("page_size"), 50)

	entries, err := h.service.ListOrderHistory(c.Context(), actor, c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.OrderHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.OrderHistoryResponse{
			ID:         entry.ID,
			TaskID:     entry.TaskID,
			ActorID:    entry.ActorID,
			ChangeType: entry.ChangeType,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseIntQuery(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func orderSummary(order *domain.Order) dto.OrderSummary {
	return dto.OrderSummary{
		ID:             order.ID,
		ExternalKey:    order.ExternalKey,
		CustomerID:     order.CustomerID,
		SalespersonID:  order.SalespersonID,
		DesignerID:     order.DesignerID,
		ManufacturerID: order.ManufacturerID,
		Title:          order.Title,
		Status:         order.Status,
		QuotedPrice:    order.QuotedPrice,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
		CompletedAt:    order.CompletedAt,
	}
}

func orderDetail(order *domain.Order, tasks []domain.Task) dto.OrderDetailResponse {
	taskItems := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		taskItems = append(taskItems, taskResponse(&tasks[i]))
	}
	return dto.OrderDetailResponse{
		OrderSummary: orderSummary(order),
		Notes:        order.Notes,
		Tasks:        taskItems,
	}
}
