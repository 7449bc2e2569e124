package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/repository"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/workflow"
	apperrors "github.com/suttonsam862/RichHabitsOMS-sub001/pkg/util/errorutil"
)

// OrderService coordinates order intake, assignment, tasks, and the workflow
// entry points.
type OrderService struct {
	orders    repository.OrderRepository
	tasks     repository.TaskRepository
	taskFiles repository.TaskFileRepository
	users     repository.UserRepository
	history   repository.OrderHistoryRepository
	machine   *workflow.Machine
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo    repository.OrderRepository
	TaskRepo     repository.TaskRepository
	TaskFileRepo repository.TaskFileRepository
	UserRepo     repository.UserRepository
	HistoryRepo  repository.OrderHistoryRepository
	Machine      *workflow.Machine
}

// OrderCreateInput describes order intake payload.
type OrderCreateInput struct {
	CustomerID  string
	Title       string
	Notes       string
	QuotedPrice decimal.Decimal
}

// OrderListInput describes listing parameters before role scoping.
type OrderListInput struct {
	Statuses []domain.OrderStatus
	Limit    int
	Offset   int
}

// AssignInput updates order participants and pricing. Nil fields are left
// untouched.
type AssignInput struct {
	SalespersonID  *string
	DesignerID     *string
	ManufacturerID *string
	QuotedPrice    *decimal.Decimal
}

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	Kind        domain.TaskKind
	AssigneeID  *string
	Description string
	Notes       string
}

// TaskFileInput defines an uploaded file reference; byte handling lives with
// the storage layer, only the reference is recorded here.
type TaskFileInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:    deps.OrderRepo,
		tasks:     deps.TaskRepo,
		taskFiles: deps.TaskFileRepo,
		users:     deps.UserRepo,
		history:   deps.HistoryRepo,
		machine:   deps.Machine,
	}
}

// CreateOrder performs intake. Customers open orders for themselves; admins
// and salespeople open them on a customer's behalf.
func (s *OrderService) CreateOrder(ctx context.Context, actor *domain.User, input OrderCreateInput) (*domain.Order, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}

	customerID := input.CustomerID
	var salespersonID *string
	switch actor.Role {
	case domain.RoleCustomer:
		customerID = actor.ID
	case domain.RoleAdmin, domain.RoleSalesperson:
		if customerID == "" {
			return nil, apperrors.NewValidationError("customer_id is required", nil)
		}
		if _, err := s.userWithRole(ctx, customerID, domain.RoleCustomer); err != nil {
			return nil, err
		}
		if actor.Role == domain.RoleSalesperson {
			salespersonID = &actor.ID
		}
	default:
		return nil, apperrors.NewForbidden("role may not create orders")
	}

	order := &domain.Order{
		ExternalKey:   generateOrderKey(),
		CustomerID:    customerID,
		SalespersonID: salespersonID,
		Title:         title,
		Notes:         strings.TrimSpace(input.Notes),
		Status:        domain.OrderStatusDraft,
		QuotedPrice:   input.QuotedPrice,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}
	return order, nil
}

// GetOrder fetches an order with its tasks, enforcing view access.
func (s *OrderService) GetOrder(ctx context.Context, actor *domain.User, orderID string) (*domain.Order, []domain.Task, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !canViewOrder(actor, order) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	tasks, err := s.tasksWithFiles(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, tasks, nil
}

// ListOrders returns orders visible to the actor.
func (s *OrderService) ListOrders(ctx context.Context, actor *domain.User, input OrderListInput) ([]domain.Order, error) {
	filter := repository.OrderFilter{
		Statuses: input.Statuses,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleSalesperson:
		// full order book
	case domain.RoleCustomer:
		filter.CustomerID = &actor.ID
	case domain.RoleDesigner:
		filter.DesignerID = &actor.ID
	case domain.RoleManufacturer:
		filter.ManufacturerID = &actor.ID
	default:
		return nil, apperrors.NewForbidden("access denied")
	}
	orders, err := s.orders.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

// Assign updates order participants and pricing. Assignment is independent
// of workflow status; it is recorded in history but emits no domain event.
func (s *OrderService) Assign(ctx context.Context, actor *domain.User, orderID string, input AssignInput) (*domain.Order, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSalesperson {
		return nil, apperrors.NewForbidden("only admin or salesperson may assign")
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	oldValue := participantSnapshot(order)
	if input.SalespersonID != nil {
		if _, err := s.userWithRole(ctx, *input.SalespersonID, domain.RoleSalesperson); err != nil {
			return nil, err
		}
		order.SalespersonID = input.SalespersonID
	}
	if input.DesignerID != nil {
		if _, err := s.userWithRole(ctx, *input.DesignerID, domain.RoleDesigner); err != nil {
			return nil, err
		}
		order.DesignerID = input.DesignerID
	}
	if input.ManufacturerID != nil {
		if _, err := s.userWithRole(ctx, *input.ManufacturerID, domain.RoleManufacturer); err != nil {
			return nil, err
		}
		order.ManufacturerID = input.ManufacturerID
	}
	if input.QuotedPrice != nil {
		if input.QuotedPrice.IsNegative() {
			return nil, apperrors.NewValidationError("quoted_price may not be negative", nil)
		}
		order.QuotedPrice = *input.QuotedPrice
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordAssignmentChange(ctx, actor.ID, order, oldValue); err != nil {
		return nil, apperrors.MapError(err)
	}
	return order, nil
}

// CreateTask opens a design or production task under an order. When no
// assignee is given, the order's matching participant is used.
func (s *OrderService) CreateTask(ctx context.Context, actor *domain.User, orderID string, input TaskCreateInput) (*domain.Task, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSalesperson {
		return nil, apperrors.NewForbidden("only admin or salesperson may create tasks")
	}
	if input.Kind != domain.TaskKindDesign && input.Kind != domain.TaskKindProduction {
		return nil, apperrors.NewValidationError("invalid task kind", map[string]any{"kind": input.Kind})
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, apperrors.NewConflict("order already finished", map[string]any{"status": order.Status})
	}

	assigneeID := input.AssigneeID
	assigneeRole := domain.RoleDesigner
	if input.Kind == domain.TaskKindProduction {
		assigneeRole = domain.RoleManufacturer
	}
	if assigneeID == nil {
		if input.Kind == domain.TaskKindDesign {
			assigneeID = order.DesignerID
		} else {
			assigneeID = order.ManufacturerID
		}
	}
	if assigneeID != nil {
		if _, err := s.userWithRole(ctx, *assigneeID, assigneeRole); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		OrderID:     order.ID,
		Kind:        input.Kind,
		AssigneeID:  assigneeID,
		Status:      domain.TaskStatusPending,
		Description: strings.TrimSpace(input.Description),
		Notes:       strings.TrimSpace(input.Notes),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

// GetTask fetches a task with its file references, enforcing view access.
func (s *OrderService) GetTask(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	order, err := s.getOrder(ctx, task.OrderID)
	if err != nil {
		return nil, err
	}
	if !canViewOrder(actor, order) && !isAssignee(actor, task) {
		return nil, apperrors.NewForbidden("access denied")
	}
	files, err := s.taskFiles.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	task.Files = files
	return task, nil
}

// AttachTaskFile records an uploaded file reference against a task. Uploads
// by the assignee against a pending or in_progress task implicitly submit
// the work for review, advancing the parent order when it still sits in the
// design phase.
func (s *OrderService) AttachTaskFile(ctx context.Context, actor *domain.User, taskID string, input TaskFileInput) (*domain.Task, *domain.TaskFile, error) {
	if strings.TrimSpace(input.StorageKey) == "" || strings.TrimSpace(input.FileName) == "" {
		return nil, nil, apperrors.NewValidationError("storage_key and file_name are required", nil)
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if !isAssignee(actor, task) {
		return nil, nil, apperrors.NewForbidden("only the task assignee may upload files")
	}
	switch task.Status {
	case domain.TaskStatusCompleted, domain.TaskStatusCancelled, domain.TaskStatusApproved:
		return nil, nil, apperrors.NewConflict("task no longer accepts uploads", map[string]any{"status": task.Status})
	}

	file := &domain.TaskFile{
		TaskID:     task.ID,
		StorageKey: strings.TrimSpace(input.StorageKey),
		FileName:   strings.TrimSpace(input.FileName),
		MimeType:   input.MimeType,
		SizeBytes:  input.SizeBytes,
		UploadedBy: actor.ID,
	}
	if err := s.taskFiles.Create(ctx, file); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	if task.Status == domain.TaskStatusPending || task.Status == domain.TaskStatusInProgress {
		notes := fmt.Sprintf("uploaded %s", file.FileName)
		task, err = s.machine.RequestTaskTransition(ctx, actor, task.ID, domain.TaskStatusSubmitted, notes)
		if err != nil {
			return nil, nil, err
		}
	}
	return task, file, nil
}

// RequestOrderTransition delegates a status change to the workflow machine.
func (s *OrderService) RequestOrderTransition(ctx context.Context, actor *domain.User, orderID string, target domain.OrderStatus, notes string) (*domain.Order, error) {
	return s.machine.RequestOrderTransition(ctx, actor, orderID, target, notes)
}

// RequestTaskTransition delegates a status change to the workflow machine.
func (s *OrderService) RequestTaskTransition(ctx context.Context, actor *domain.User, taskID string, target domain.TaskStatus, notes string) (*domain.Task, error) {
	return s.machine.RequestTaskTransition(ctx, actor, taskID, target, notes)
}

// ListOrderHistory returns the change trail for an order.
func (s *OrderService) ListOrderHistory(ctx context.Context, actor *domain.User, orderID string, limit, offset int) ([]domain.OrderHistory, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canViewOrder(actor, order) {
		return nil, apperrors.NewForbidden("access denied")
	}
	entries, err := s.history.ListByOrder(ctx, orderID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
		}
		return nil, apperrors.MapError(err)
	}
	return order, nil
}

func (s *OrderService) getTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

func (s *OrderService) userWithRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if user.Role != role {
		return nil, apperrors.NewValidationError("user has wrong role", map[string]any{
			"user_id":  userID,
			"expected": role,
			"actual":   user.Role,
		})
	}
	return user, nil
}

func (s *OrderService) tasksWithFiles(ctx context.Context, orderID string) ([]domain.Task, error) {
	tasks, err := s.tasks.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range tasks {
		files, err := s.taskFiles.ListByTask(ctx, tasks[i].ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		tasks[i].Files = files
	}
	return tasks, nil
}

func (s *OrderService) recordAssignmentChange(ctx context.Context, actorID string, order *domain.Order, oldValue map[string]any) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.OrderHistory{
		OrderID:    order.ID,
		ActorID:    &actorID,
		ChangeType: domain.ChangeTypeAssignment,
		OldValue:   oldValue,
		NewValue:   participantSnapshot(order),
	})
}

func participantSnapshot(order *domain.Order) map[string]any {
	return map[string]any{
		"salesperson_id":  order.SalespersonID,
		"designer_id":     order.DesignerID,
		"manufacturer_id": order.ManufacturerID,
		"quoted_price":    order.QuotedPrice.String(),
	}
}

func canViewOrder(actor *domain.User, order *domain.Order) bool {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleSalesperson:
		return true
	case domain.RoleCustomer:
		return order.CustomerID == actor.ID
	case domain.RoleDesigner:
		return order.DesignerID != nil && *order.DesignerID == actor.ID
	case domain.RoleManufacturer:
		return order.ManufacturerID != nil && *order.ManufacturerID == actor.ID
	}
	return false
}

func isAssignee(actor *domain.User, task *domain.Task) bool {
	return task.AssigneeID != nil && *task.AssigneeID == actor.ID
}

func generateOrderKey() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
