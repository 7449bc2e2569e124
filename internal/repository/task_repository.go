package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
)

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByOrder(ctx context.Context, orderID string) ([]domain.Task, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (order_id, kind, assignee_id, status, description, notes, rejection_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		task.OrderID,
		task.Kind,
		task.AssigneeID,
		task.Status,
		task.Description,
		task.Notes,
		task.RejectionNotes,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET assignee_id=$1, status=$2, description=$3, notes=$4, rejection_notes=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		task.AssigneeID,
		task.Status,
		task.Description,
		task.Notes,
		task.RejectionNotes,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
        SELECT id, order_id, kind, assignee_id, status, description, notes, rejection_notes, created_at, updated_at
        FROM tasks WHERE id=$1`

	var task domain.Task
	if err := scanTask(r.pool.QueryRow(ctx, query, id), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.Task, error) {
	const query = `
        SELECT id, order_id, kind, assignee_id, status, description, notes, rejection_notes, created_at, updated_at
        FROM tasks WHERE order_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := scanTask(rows, &task); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}

func scanTask(row pgx.Row, task *domain.Task) error {
	return row.Scan(
		&task.ID,
		&task.OrderID,
		&task.Kind,
		&task.AssigneeID,
		&task.Status,
		&task.Description,
		&task.Notes,
		&task.RejectionNotes,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
}
