package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ErlanBelekov/todo-api/internal/domain"
	"github.com/ErlanBelekov/todo-api/internal/repository"
)

type TaskUsecase struct {
	repo repository.TaskRepository
}

func NewTaskUsecase(repo repository.TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: repo}
}

type CreateTaskInput struct {
	UserID      int64
	Title       string
	Description *string
}

func (u *TaskUsecase) ListTasks(ctx context.Context, userID int64) ([]*domain.Task, error) {
	tasks, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

func (u *TaskUsecase) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(input.Title) > maxFieldLen {
		return nil, domain.NewValidationError("Title must be at most 255 characters")
	}

	task, err := u.repo.Create(ctx, input.UserID, input.Title, normalizeDescription(input.Description))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// UpdateTask applies patch to the caller's task. Tasks owned by anyone else
// report domain.ErrTaskNotFound.
func (u *TaskUsecase) UpdateTask(ctx context.Context, userID, taskID int64, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, domain.NewValidationError("Title cannot be empty")
		}
		if utf8.RuneCountInString(*patch.Title) > maxFieldLen {
			return nil, domain.NewValidationError("Title must be at most 255 characters")
		}
	}
	if patch.Description.Set {
		patch.Description.Value = normalizeDescription(patch.Description.Value)
	}

	task, err := u.repo.Update(ctx, userID, taskID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (u *TaskUsecase) DeleteTask(ctx context.Context, userID, taskID int64) error {
	if err := u.repo.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// An empty description is stored as NULL.
func normalizeDescription(d *string) *string {
	if d == nil || *d == "" {
		return nil
	}
	return d
}
