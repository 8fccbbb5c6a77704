package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/thiagodsaraujo/todo-auth-api/internal/transport/http/handler"
	"github.com/thiagodsaraujo/todo-auth-api/internal/transport/http/middleware"
)

func NewRouter(
	logger *slog.Logger,
	gateway middleware.SessionGateway,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	todoHandler *handler.TodoHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Public auth routes — login doubles as the bearer-token discovery URL.
	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	authMW := middleware.Auth(gateway)

	users := r.Group("/users", authMW)
	users.GET("/me", userHandler.Me)

	todos := r.Group("/todos", authMW)
	todos.POST("", todoHandler.Create)
	todos.GET("", todoHandler.List)
	todos.GET("/:id", todoHandler.GetByID)
	todos.PATCH("/:id", todoHandler.Update)
	todos.DELETE("/:id", todoHandler.Delete)

	return r
}
