package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
)

// OrderFilter captures listing parameters.
type OrderFilter struct {
	CustomerID     *string
	SalespersonID  *string
	DesignerID     *string
	ManufacturerID *string
	Statuses       []domain.OrderStatus
	Limit          int
	Offset         int
}

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByExternalKey(ctx context.Context, key string) (*domain.Order, error)
	ListWithFilter(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (external_key, customer_id, salesperson_id, designer_id, manufacturer_id, title, notes, status, quoted_price)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		order.ExternalKey,
		order.CustomerID,
		order.SalespersonID,
		order.DesignerID,
		order.ManufacturerID,
		order.Title,
		order.Notes,
		order.Status,
		order.QuotedPrice,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	const query = `
        UPDATE orders SET salesperson_id=$1, designer_id=$2, manufacturer_id=$3, title=$4, notes=$5,
            status=$6, quoted_price=$7, completed_at=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		order.SalespersonID,
		order.DesignerID,
		order.ManufacturerID,
		order.Title,
		order.Notes,
		order.Status,
		order.QuotedPrice,
		order.CompletedAt,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
        SELECT id, external_key, customer_id, salesperson_id, designer_id, manufacturer_id,
               title, notes, status, quoted_price, created_at, updated_at, completed_at
        FROM orders WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *orderRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Order, error) {
	const query = `
        SELECT id, external_key, customer_id, salesperson_id, designer_id, manufacturer_id,
               title, notes, status, quoted_price, created_at, updated_at, completed_at
        FROM orders WHERE external_key=$1`
	return r.fetchSingle(ctx, query, key)
}

func (r *orderRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var order domain.Order
	if err := scanOrder(r.pool.QueryRow(ctx, query, arg), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListWithFilter(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	base := `SELECT id, external_key, customer_id, salesperson_id, designer_id, manufacturer_id,
                    title, notes, status, quoted_price, created_at, updated_at, completed_at
             FROM orders`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.SalespersonID != nil {
		args = append(args, *filter.SalespersonID)
		clauses = append(clauses, fmt.Sprintf("salesperson_id=$%d", len(args)))
	}
	if filter.DesignerID != nil {
		args = append(args, *filter.DesignerID)
		clauses = append(clauses, fmt.Sprintf("designer_id=$%d", len(args)))
	}
	if filter.ManufacturerID != nil {
		args = append(args, *filter.ManufacturerID)
		clauses = append(clauses, fmt.Sprintf("manufacturer_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}

func scanOrder(row pgx.Row, order *domain.Order) error {
	return row.Scan(
		&order.ID,
		&order.ExternalKey,
		&order.CustomerID,
		&order.SalespersonID,
		&order.DesignerID,
		&order.ManufacturerID,
		&order.Title,
		&order.Notes,
		&order.Status,
		&order.QuotedPrice,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.CompletedAt,
	)
}
