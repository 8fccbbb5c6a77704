package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
	"github.com/thiagodsaraujo/todo-auth-api/internal/repository"
)

// TodoUsecase is a thin owner-scoped layer over the repository. The owner ID
// always comes from the resolved session user, never from request input.
type TodoUsecase struct {
	repo repository.TodoRepository
}

func NewTodoUsecase(repo repository.TodoRepository) *TodoUsecase {
	return &TodoUsecase{repo: repo}
}

type CreateTodoInput struct {
	OwnerID     string
	Title       string
	Description *string
	DueAt       *time.Time
}

func (u *TodoUsecase) Create(ctx context.Context, input CreateTodoInput) (*domain.Todo, error) {
	todo := &domain.Todo{
		ID:          uuid.NewString(),
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		DueAt:       input.DueAt,
	}

	created, err := u.repo.Create(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return created, nil
}

func (u *TodoUsecase) GetByID(ctx context.Context, todoID, ownerID string) (*domain.Todo, error) {
	todo, err := u.repo.GetByID(ctx, todoID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

func (u *TodoUsecase) List(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	todos, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (u *TodoUsecase) Update(ctx context.Context, todoID, ownerID string, input repository.UpdateTodoInput) (*domain.Todo, error) {
	todo, err := u.repo.Update(ctx, todoID, ownerID, input)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

func (u *TodoUsecase) Delete(ctx context.Context, todoID, ownerID string) error {
	if err := u.repo.Delete(ctx, todoID, ownerID); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}
