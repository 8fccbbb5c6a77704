package repository

import (
	"context"
	"time"

	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
)

// UpdateTodoInput carries a partial update. Nil fields are left untouched.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	Done        *bool
	DueAt       *time.Time
}

// TodoRepository persists to-do items. Every operation is filtered by owner;
// an item belonging to another user is indistinguishable from a missing one
// (domain.ErrTodoNotFound). Update always stamps updated_at as part of its
// write contract.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	GetByID(ctx context.Context, todoID, ownerID string) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error)
	Update(ctx context.Context, todoID, ownerID string, input UpdateTodoInput) (*domain.Todo, error)
	Delete(ctx context.Context, todoID, ownerID string) error

	// DueSoon returns unfinished items due within the window, joined with
	// their owner's email. Used by the reminder process.
	DueSoon(ctx context.Context, window time.Duration, limit int) ([]*domain.TodoReminder, error)
}
