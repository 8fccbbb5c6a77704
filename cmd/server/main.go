package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/thiagodsaraujo/todo-auth-api/config"
	"github.com/thiagodsaraujo/todo-auth-api/internal/auth"
	"github.com/thiagodsaraujo/todo-auth-api/internal/email"
	"github.com/thiagodsaraujo/todo-auth-api/internal/health"
	"github.com/thiagodsaraujo/todo-auth-api/internal/infrastructure/postgres"
	ctxlog "github.com/thiagodsaraujo/todo-auth-api/internal/log"
	"github.com/thiagodsaraujo/todo-auth-api/internal/metrics"
	httptransport "github.com/thiagodsaraujo/todo-auth-api/internal/transport/http"
	"github.com/thiagodsaraujo/todo-auth-api/internal/transport/http/handler"
	"github.com/thiagodsaraujo/todo-auth-api/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Auth core
	issuer, err := auth.NewIssuer(
		cfg.JWTAlgorithm,
		[]byte(cfg.JWTAccessSecret),
		[]byte(cfg.JWTRefreshSecret),
		auth.WithAccessTTL(auth.Minutes(cfg.AccessTokenTTLMin)),
		auth.WithRefreshTTL(auth.Minutes(cfg.RefreshTokenTTLMin)),
	)
	if err != nil {
		stop()
		log.Fatalf("token issuer: %v", err)
	}
	validator := auth.NewValidator(cfg.JWTAlgorithm, []byte(cfg.JWTAccessSecret), []byte(cfg.JWTRefreshSecret))
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(
		userRepo,
		auth.NewPasswordHasher(),
		issuer,
		validator,
		sender,
		logger,
	)
	authHandler := handler.NewAuthHandler(authUsecase, logger)
	userHandler := handler.NewUserHandler()

	// Todos
	todoRepo := postgres.NewTodoRepository(pool)
	todoUsecase := usecase.NewTodoUsecase(todoRepo)
	todoHandler := handler.NewTodoHandler(todoUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authUsecase, authHandler, userHandler, todoHandler),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
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
