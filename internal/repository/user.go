package repository

import (
	"context"

	"github.com/ErlanBelekov/todo-api/internal/domain"
)

// UseCase depends on interface, not concrete implementation.
// Postgres and in-memory stores both satisfy it, and tests pass fakes.
type UserRepository interface {
	// Create inserts the user and returns it with ID and CreatedAt set.
	// Returns domain.ErrEmailTaken on a unique violation.
	Create(ctx context.Context, email, passwordHash, name string) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Delete removes the user; owned tasks go with it (ON DELETE CASCADE).
	Delete(ctx context.Context, id int64) error
}
