package repository

import (
	"context"

	"github.com/ErlanBelekov/todo-api/internal/domain"
)

// Every method that takes a task ID also takes the owner's ID and matches on
// both in a single statement. A task owned by someone else is indistinguishable
// from a missing one: domain.ErrTaskNotFound.
type TaskRepository interface {
	// ListByUser returns tasks newest first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error)
	Create(ctx context.Context, userID int64, title string, description *string) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID int64, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
}
