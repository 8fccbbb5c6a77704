package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
	"github.com/thiagodsaraujo/todo-auth-api/internal/repository"
	"github.com/thiagodsaraujo/todo-auth-api/internal/transport/http/middleware"
	"github.com/thiagodsaraujo/todo-auth-api/internal/usecase"
)

type todoUsecaser interface {
	Create(ctx context.Context, input usecase.CreateTodoInput) (*domain.Todo, error)
	GetByID(ctx context.Context, todoID, ownerID string) (*domain.Todo, error)
	List(ctx context.Context, ownerID string) ([]*domain.Todo, error)
	Update(ctx context.Context, todoID, ownerID string, input repository.UpdateTodoInput) (*domain.Todo, error)
	Delete(ctx context.Context, todoID, ownerID string) error
}

type TodoHandler struct {
	todoUsecase todoUsecaser
	logger      *slog.Logger
}

func NewTodoHandler(todoUsecase todoUsecaser, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{todoUsecase: todoUsecase, logger: logger.With("component", "todo_handler")}
}

type createTodoRequest struct {
	Title       string     `json:"title"       binding:"required,min=3,max=50"`
	Description *string    `json:"description" binding:"omitempty,min=3,max=500"`
	DueAt       *time.Time `json:"due_at"`
}

type updateTodoRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,min=3,max=50"`
	Description *string    `json:"description" binding:"omitempty,min=3,max=500"`
	Done        *bool      `json:"done"`
	DueAt       *time.Time `json:"due_at"`
}

type todoResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Done        bool       `json:"done"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Done:        t.Done,
		DueAt:       t.DueAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *TodoHandler) Create(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner := middleware.CurrentUser(c)
	todo, err := h.todoUsecase.Create(c.Request.Context(), usecase.CreateTodoInput{
		OwnerID:     owner.ID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create todo", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, newTodoResponse(todo))
}

func (h *TodoHandler) List(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	todos, err := h.todoUsecase.List(c.Request.Context(), owner.ID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list todos", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, newTodoResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

func (h *TodoHandler) GetByID(c *gin.Context) {
	owner := middleware.CurrentUser(c)
	todoID := c.Param("id")

	todo, err := h.todoUsecase.GetByID(c.Request.Context(), todoID, owner.ID)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTodoNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get todo", "todo_id", todoID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, newTodoResponse(todo))
}

func (h *TodoHandler) Update(c *gin.Context) {
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner := middleware.CurrentUser(c)
	todoID := c.Param("id")

	todo, err := h.todoUsecase.Update(c.Request.Context(), todoID, owner.ID, repository.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
		DueAt:       req.DueAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTodoNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "update todo", "todo_id", todoID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, newTodoResponse(todo))
}

func (h *TodoHandler) Delete(c *gin.Context) {
	owner := middleware.CurrentUser(c)
	todoID := c.Param("id")

	if err := h.todoUsecase.Delete(c.Request.Context(), todoID, owner.ID); err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTodoNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete todo", "todo_id", todoID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusNoContent)
}
