package repository

import (
	"context"

	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
)

// UserRepository is the storage collaborator of the auth core. Uniqueness of
// username and email is enforced by the storage layer; a duplicate insert
// must fail atomically with domain.ErrDuplicateUser.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
