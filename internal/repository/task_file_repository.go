package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
)

// TaskFileRepository stores file references attached to tasks.
type TaskFileRepository interface {
	Create(ctx context.Context, file *domain.TaskFile) error
	ListByTask(ctx context.Context, taskID string) ([]domain.TaskFile, error)
}

type taskFileRepository struct {
	pool *pgxpool.Pool
}

// NewTaskFileRepository instantiates repository.
func NewTaskFileRepository(pool *pgxpool.Pool) TaskFileRepository {
	return &taskFileRepository{pool: pool}
}

func (r *taskFileRepository) Create(ctx context.Context, file *domain.TaskFile) error {
	const query = `
        INSERT INTO task_files (task_id, storage_key, file_name, mime_type, size_bytes, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		file.TaskID,
		file.StorageKey,
		file.FileName,
		file.MimeType,
		file.SizeBytes,
		file.UploadedBy,
	).Scan(&file.ID, &file.CreatedAt)
}

func (r *taskFileRepository) ListByTask(ctx context.Context, taskID string) ([]domain.TaskFile, error) {
	const query = `
        SELECT id, task_id, storage_key, file_name, mime_type, size_bytes, uploaded_by, created_at
        FROM task_files WHERE task_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TaskFile
	for rows.Next() {
		var file domain.TaskFile
		if err := rows.Scan(
			&file.ID,
			&file.TaskID,
			&file.StorageKey,
			&file.FileName,
			&file.MimeType,
			&file.SizeBytes,
			&file.UploadedBy,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}
