package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
)

// OrderHistoryRepository stores the immutable audit trail.
type OrderHistoryRepository interface {
	Create(ctx context.Context, entry *domain.OrderHistory) error
	ListByOrder(ctx context.Context, orderID string, limit, offset int) ([]domain.OrderHistory, error)
}

type orderHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewOrderHistoryRepository instantiates repository.
func NewOrderHistoryRepository(pool *pgxpool.Pool) OrderHistoryRepository {
	return &orderHistoryRepository{pool: pool}
}

func (r *orderHistoryRepository) Create(ctx context.Context, entry *domain.OrderHistory) error {
	const query = `
        INSERT INTO order_history (order_id, task_id, actor_id, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.OrderID,
		entry.TaskID,
		entry.ActorID,
		entry.ChangeType,
		entry.OldValue,
		entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *orderHistoryRepository) ListByOrder(ctx context.Context, orderID string, limit, offset int) ([]domain.OrderHistory, error) {
	const query = `
        SELECT id, order_id, task_id, actor_id, change_type, old_value, new_value, created_at
        FROM order_history WHERE order_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, query, orderID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OrderHistory
	for rows.Next() {
		var entry domain.OrderHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.OrderID,
			&entry.TaskID,
			&entry.ActorID,
			&entry.ChangeType,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
