package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
	"github.com/thiagodsaraujo/todo-auth-api/internal/email"
	"github.com/thiagodsaraujo/todo-auth-api/internal/metrics"
	"github.com/thiagodsaraujo/todo-auth-api/internal/repository"
)

const defaultBatchSize = 500

// Sweeper emails owners of unfinished to-dos that fall due within the
// configured window. One Sweep call is one pass; the cron schedule that
// triggers it lives in the reminder binary.
type Sweeper struct {
	todos     repository.TodoRepository
	email     email.Sender
	logger    *slog.Logger
	window    time.Duration
	batchSize int
}

func NewSweeper(todos repository.TodoRepository, sender email.Sender, logger *slog.Logger, window time.Duration) *Sweeper {
	return &Sweeper{
		todos:     todos,
		email:     sender,
		logger:    logger.With("component", "reminder"),
		window:    window,
		batchSize: defaultBatchSize,
	}
}

// Sweep finds due items and sends one email per item. Send failures are
// counted and logged but do not stop the pass.
func (s *Sweeper) Sweep(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.ReminderCycleDuration.Observe(time.Since(start).Seconds())
	}()

	due, err := s.todos.DueSoon(ctx, s.window, s.batchSize)
	if err != nil {
		return fmt.Errorf("find due todos: %w", err)
	}

	sent := 0
	for _, rem := range due {
		if err := s.email.Send(ctx, rem.OwnerEmail, subject(rem), body(rem)); err != nil {
			metrics.RemindersSentTotal.WithLabelValues("failure").Inc()
			s.logger.ErrorContext(ctx, "send reminder", "todo_id", rem.ID, "error", err)
			continue
		}
		metrics.RemindersSentTotal.WithLabelValues("success").Inc()
		sent++
	}

	s.logger.InfoContext(ctx, "reminder sweep finished", "due", len(due), "sent", sent)
	return nil
}

func subject(rem *domain.TodoReminder) string {
	return fmt.Sprintf("Reminder: %q is due soon", rem.Title)
}

func body(rem *domain.TodoReminder) string {
	dueAt := "soon"
	if rem.DueAt != nil {
		dueAt = rem.DueAt.Format(time.RFC1123)
	}
	return fmt.Sprintf("<p>Your task <strong>%s</strong> is due %s.</p>", rem.Title, dueAt)
}
