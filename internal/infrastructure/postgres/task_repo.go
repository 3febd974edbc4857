package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/todo-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error) {
	query := `
		SELECT id, user_id, title, description, is_completed, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, userID int64, title string, description *string) (*domain.Task, error) {
	// created_at and updated_at share the transaction timestamp, so they are equal.
	query := `
		INSERT INTO tasks (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, title, description, is_completed, created_at, updated_at`

	created, err := scanTask(r.pool.QueryRow(ctx, query, userID, title, description))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return created, nil
}

// Update merges the patch in one statement scoped by id AND owner, so there
// is no window between the ownership check and the write.
func (r *TaskRepository) Update(ctx context.Context, userID, taskID int64, patch domain.TaskPatch) (*domain.Task, error) {
	query := `
		UPDATE tasks
		SET    title        = COALESCE($3::text, title),
		       description  = CASE WHEN $4::boolean THEN $5::text ELSE description END,
		       is_completed = COALESCE($6::boolean, is_completed),
		       updated_at   = NOW()
		WHERE  id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, is_completed, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		taskID, userID,
		patch.Title,
		patch.Description.Set, patch.Description.Value,
		patch.IsCompleted,
	)
	return scanTask(row)
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}
