package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
	"github.com/thiagodsaraujo/todo-auth-api/internal/repository"
)

type TodoRepository struct {
	pool *pgxpool.Pool
}

func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	query := `
		INSERT INTO todos (id, owner_id, title, description, done, due_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, title, description, done, due_at, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		todo.ID,
		todo.OwnerID,
		todo.Title,
		todo.Description,
		todo.Done,
		todo.DueAt,
	)
	return scanTodo(row)
}

func (r *TodoRepository) GetByID(ctx context.Context, todoID, ownerID string) (*domain.Todo, error) {
	query := `
		SELECT id, owner_id, title, description, done, due_at, created_at, updated_at
		FROM todos
		WHERE id = $1 AND owner_id = $2`

	return scanTodo(r.pool.QueryRow(ctx, query, todoID, ownerID))
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	query := `
		SELECT id, owner_id, title, description, done, due_at, created_at, updated_at
		FROM todos
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []*domain.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Update applies the non-nil fields and always stamps updated_at. COALESCE
// keeps the stored value for fields the caller did not send.
func (r *TodoRepository) Update(ctx context.Context, todoID, ownerID string, input repository.UpdateTodoInput) (*domain.Todo, error) {
	query := `
		UPDATE todos
		SET    title       = COALESCE($3, title),
		       description = COALESCE($4, description),
		       done        = COALESCE($5, done),
		       due_at      = COALESCE($6, due_at),
		       updated_at  = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, title, description, done, due_at, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		todoID,
		ownerID,
		input.Title,
		input.Description,
		input.Done,
		input.DueAt,
	)
	return scanTodo(row)
}

func (r *TodoRepository) Delete(ctx context.Context, todoID, ownerID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM todos WHERE id = $1 AND owner_id = $2`, todoID, ownerID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) DueSoon(ctx context.Context, window time.Duration, limit int) ([]*domain.TodoReminder, error) {
	query := `
		SELECT t.id, t.owner_id, t.title, t.description, t.done, t.due_at,
		       t.created_at, t.updated_at, u.email
		FROM todos t
		JOIN users u ON u.id = t.owner_id
		WHERE t.done = FALSE
		  AND u.disabled = FALSE
		  AND t.due_at IS NOT NULL
		  AND t.due_at BETWEEN NOW() AND NOW() + make_interval(secs => $1)
		ORDER BY t.due_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, window.Seconds(), limit)
	if err != nil {
		return nil, fmt.Errorf("due soon: %w", err)
	}
	defer rows.Close()

	var reminders []*domain.TodoReminder
	for rows.Next() {
		var rem domain.TodoReminder
		err := rows.Scan(
			&rem.ID,
			&rem.OwnerID,
			&rem.Title,
			&rem.Description,
			&rem.Done,
			&rem.DueAt,
			&rem.CreatedAt,
			&rem.UpdatedAt,
			&rem.OwnerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, &rem)
	}
	return reminders, rows.Err()
}

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Done,
		&t.DueAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	return &t, nil
}
