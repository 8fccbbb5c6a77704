package domain

import (
	"errors"
	"time"
)

var ErrTodoNotFound = errors.New("todo not found")

// Todo is owned by exactly one user. The owner is fixed at creation and is
// the sole authorization predicate for reads, updates and deletes.
type Todo struct {
	ID          string
	OwnerID     string
	Title       string
	Description *string
	Done        bool
	DueAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoReminder is a due item joined with its owner's email, produced for the
// reminder sweep.
type TodoReminder struct {
	Todo
	OwnerEmail string
}
