package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thiagodsaraujo/todo-auth-api/config"
	"github.com/thiagodsaraujo/todo-auth-api/internal/email"
	"github.com/thiagodsaraujo/todo-auth-api/internal/infrastructure/postgres"
	ctxlog "github.com/thiagodsaraujo/todo-auth-api/internal/log"
	"github.com/thiagodsaraujo/todo-auth-api/internal/metrics"
	"github.com/thiagodsaraujo/todo-auth-api/internal/reminder"

	"github.com/lmittmann/tint"
)

// The reminder process runs the due-date sweep on a cron schedule,
// independently of the API server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	metrics.Register()

	sweeper := reminder.NewSweeper(
		postgres.NewTodoRepository(pool),
		email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger),
		logger,
		time.Duration(cfg.ReminderWindowHours)*time.Hour,
	)

	c := cron.New()
	_, err = c.AddFunc(cfg.ReminderCron, func() {
		if err := sweeper.Sweep(ctx); err != nil {
			logger.Error("reminder sweep", "error", err)
		}
	})
	if err != nil {
		log.Fatalf("invalid REMINDER_CRON %q: %v", cfg.ReminderCron, err)
	}

	c.Start()
	logger.Info("reminder process started", "cron", cfg.ReminderCron, "window_hours", cfg.ReminderWindowHours)

	<-ctx.Done()
	logger.Info("shutting down...")
	<-c.Stop().Done()
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
