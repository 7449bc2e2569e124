package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
)

// MessageRepository encapsulates direct-message persistence.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	ListConversation(ctx context.Context, userA, userB string, limit, offset int) ([]domain.Message, error)
	// MarkEmailFallbackUsed flips email_fallback_used false to true. It
	// reports true only for the call that performed the flip, so the
	// fallback path stays idempotent under concurrent retries.
	MarkEmailFallbackUsed(ctx context.Context, id string) (bool, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (sender_id, receiver_id, content, order_id, task_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, email_fallback_used, created_at`
	return r.pool.QueryRow(ctx, query,
		message.SenderID,
		message.ReceiverID,
		message.Content,
		message.OrderID,
		message.TaskID,
	).Scan(&message.ID, &message.EmailFallbackUsed, &message.CreatedAt)
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	const query = `
        SELECT id, sender_id, receiver_id, content, order_id, task_id, email_fallback_used, created_at
        FROM messages WHERE id=$1`

	var message domain.Message
	if err := scanMessage(r.pool.QueryRow(ctx, query, id), &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) ListConversation(ctx context.Context, userA, userB string, limit, offset int) ([]domain.Message, error) {
	const query = `
        SELECT id, sender_id, receiver_id, content, order_id, task_id, email_fallback_used, created_at
        FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
        ORDER BY created_at DESC LIMIT $3 OFFSET $4`

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, query, userA, userB, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var message domain.Message
		if err := scanMessage(rows, &message); err != nil {
			return nil, err
		}
		result = append(result, message)
	}
	return result, rows.Err()
}

func (r *messageRepository) MarkEmailFallbackUsed(ctx context.Context, id string) (bool, error) {
	const query = `
        UPDATE messages SET email_fallback_used=true
        WHERE id=$1 AND email_fallback_used=false`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanMessage(row pgx.Row, message *domain.Message) error {
	return row.Scan(
		&message.ID,
		&message.SenderID,
		&message.ReceiverID,
		&message.Content,
		&message.OrderID,
		&message.TaskID,
		&message.EmailFallbackUsed,
		&message.CreatedAt,
	)
}
