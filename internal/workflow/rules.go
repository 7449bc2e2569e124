package workflow

import (
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/events"
)

// orderTransitions is the complete legality table for order statuses.
// pending_design reaches design_review directly because a file upload against
// a pending task submits the design without an explicit in-progress step.
var orderTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusDraft:             {domain.OrderStatusPendingDesign, domain.OrderStatusCancelled},
	domain.OrderStatusPendingDesign:     {domain.OrderStatusDesignInProgress, domain.OrderStatusDesignReview, domain.OrderStatusCancelled},
	domain.OrderStatusDesignInProgress:  {domain.OrderStatusDesignReview, domain.OrderStatusCancelled},
	domain.OrderStatusDesignReview:      {domain.OrderStatusDesignApproved, domain.OrderStatusCancelled},
	domain.OrderStatusDesignApproved:    {domain.OrderStatusPendingProduction, domain.OrderStatusCancelled},
	domain.OrderStatusPendingProduction: {domain.OrderStatusInProduction, domain.OrderStatusCancelled},
	domain.OrderStatusInProduction:      {domain.OrderStatusCompleted, domain.OrderStatusCancelled},
	domain.OrderStatusCompleted:         {},
	domain.OrderStatusCancelled:         {},
}

// taskTransitions is the complete legality table for task statuses.
// pending reaches submitted directly through the file-upload path. A rejected
// request is legal from submitted; the applied status is in_progress (see
// AppliedTaskStatus), so the rejected row exists only to keep the vocabulary
// closed.
var taskTransitions = map[domain.TaskStatus][]domain.TaskStatus{
	domain.TaskStatusPending:    {domain.TaskStatusInProgress, domain.TaskStatusSubmitted, domain.TaskStatusCancelled},
	domain.TaskStatusInProgress: {domain.TaskStatusSubmitted, domain.TaskStatusCancelled},
	domain.TaskStatusSubmitted:  {domain.TaskStatusApproved, domain.TaskStatusRejected, domain.TaskStatusCancelled},
	domain.TaskStatusApproved:   {domain.TaskStatusCompleted, domain.TaskStatusCancelled},
	domain.TaskStatusRejected:   {domain.TaskStatusInProgress},
	domain.TaskStatusCompleted:  {},
	domain.TaskStatusCancelled:  {},
}

// OrderTransitionAllowed reports whether the status pair is in the table.
func OrderTransitionAllowed(from, to domain.OrderStatus) bool {
	for _, candidate := range orderTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// TaskTransitionAllowed reports whether the status pair is in the table.
func TaskTransitionAllowed(from, to domain.TaskStatus) bool {
	for _, candidate := range taskTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// AppliedTaskStatus maps a requested target to the status actually stored. A
// rejection sends the task back to rework rather than parking it.
func AppliedTaskStatus(requested domain.TaskStatus) domain.TaskStatus {
	if requested == domain.TaskStatusRejected {
		return domain.TaskStatusInProgress
	}
	return requested
}

type taskTransition struct {
	from, to domain.TaskStatus
}

type taskRule struct {
	roles            []domain.Role
	requiresAssignee bool
}

// taskRules dispatches task transition permissions by (role, transition).
// requiresAssignee rows additionally demand the actor be the task's assignee.
var taskRules = map[taskTransition]taskRule{
	{domain.TaskStatusPending, domain.TaskStatusInProgress}:   {roles: []domain.Role{domain.RoleDesigner, domain.RoleManufacturer}, requiresAssignee: true},
	{domain.TaskStatusPending, domain.TaskStatusSubmitted}:    {roles: []domain.Role{domain.RoleDesigner, domain.RoleManufacturer}, requiresAssignee: true},
	{domain.TaskStatusInProgress, domain.TaskStatusSubmitted}: {roles: []domain.Role{domain.RoleDesigner, domain.RoleManufacturer}, requiresAssignee: true},
	{domain.TaskStatusSubmitted, domain.TaskStatusApproved}:   {roles: []domain.Role{domain.RoleSalesperson, domain.RoleAdmin}},
	{domain.TaskStatusSubmitted, domain.TaskStatusRejected}:   {roles: []domain.Role{domain.RoleSalesperson, domain.RoleAdmin}},
	{domain.TaskStatusApproved, domain.TaskStatusCompleted}:   {roles: []domain.Role{domain.RoleDesigner, domain.RoleManufacturer, domain.RoleSalesperson, domain.RoleAdmin}},
	{domain.TaskStatusRejected, domain.TaskStatusInProgress}:  {roles: []domain.Role{domain.RoleDesigner, domain.RoleManufacturer}, requiresAssignee: true},
	{domain.TaskStatusPending, domain.TaskStatusCancelled}:    {roles: []domain.Role{domain.RoleSalesperson, domain.RoleAdmin}},
	{domain.TaskStatusInProgress, domain.TaskStatusCancelled}: {roles: []domain.Role{domain.RoleSalesperson, domain.RoleAdmin}},
	{domain.TaskStatusSubmitted, domain.TaskStatusCancelled}:  {roles: []domain.Role{domain.RoleSalesperson, domain.RoleAdmin}},
	{domain.TaskStatusApproved, domain.TaskStatusCancelled}:   {roles: []domain.Role{domain.RoleSalesperson, domain.RoleAdmin}},
}

// CanRequestTaskTransition reports whether the actor may request the task
// transition. It assumes the pair is already legal per TaskTransitionAllowed.
func CanRequestTaskTransition(actor *domain.User, task *domain.Task, target domain.TaskStatus) bool {
	if actor == nil || task == nil {
		return false
	}
	rule, ok := taskRules[taskTransition{task.Status, target}]
	if !ok {
		return false
	}
	if !roleIn(actor.Role, rule.roles) {
		return false
	}
	if rule.requiresAssignee {
		return task.AssigneeID != nil && *task.AssigneeID == actor.ID
	}
	return true
}

// CanRequestOrderTransition reports whether the actor may request the order
// transition. Salespeople and admins drive the order workflow; the assigned
// designer and manufacturer may advance their own lanes; a customer may
// submit or cancel their own order before design work starts.
func CanRequestOrderTransition(actor *domain.User, order *domain.Order, target domain.OrderStatus) bool {
	if actor == nil || order == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleSalesperson:
		return true
	case domain.RoleDesigner:
		if order.DesignerID == nil || *order.DesignerID != actor.ID {
			return false
		}
		return order.Status == domain.OrderStatusPendingDesign && target == domain.OrderStatusDesignInProgress
	case domain.RoleManufacturer:
		if order.ManufacturerID == nil || *order.ManufacturerID != actor.ID {
			return false
		}
		return (order.Status == domain.OrderStatusPendingProduction && target == domain.OrderStatusInProduction) ||
			(order.Status == domain.OrderStatusInProduction && target == domain.OrderStatusCompleted)
	case domain.RoleCustomer:
		if order.CustomerID != actor.ID {
			return false
		}
		if target == domain.OrderStatusCancelled {
			return order.Status == domain.OrderStatusDraft || order.Status == domain.OrderStatusPendingDesign
		}
		return order.Status == domain.OrderStatusDraft && target == domain.OrderStatusPendingDesign
	}
	return false
}

// TaskEventType names the event emitted for an accepted task transition. The
// review milestones get their own event types per task kind; everything else
// is a plain status change.
func TaskEventType(kind domain.TaskKind, requested domain.TaskStatus) events.EventType {
	design := kind == domain.TaskKindDesign
	switch requested {
	case domain.TaskStatusSubmitted:
		if design {
			return events.EventDesignSubmitted
		}
		return events.EventProductionSubmitted
	case domain.TaskStatusApproved:
		if design {
			return events.EventDesignApproved
		}
		return events.EventProductionApproved
	case domain.TaskStatusRejected:
		if design {
			return events.EventDesignRejected
		}
		return events.EventProductionRejected
	}
	return events.EventTaskStatusChanged
}

func roleIn(role domain.Role, roles []domain.Role) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}
