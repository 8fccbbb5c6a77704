package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thiagodsaraujo/todo-auth-api/internal/transport/http/middleware"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GET /users/me — echoes the identity resolved by the auth middleware.
func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, newUserResponse(user))
}
