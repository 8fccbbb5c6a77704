package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
	ctxlog "github.com/thiagodsaraujo/todo-auth-api/internal/log"
)

const userKey = "currentUser"

// SessionGateway resolves a bearer access token to a user identity.
// Implemented by usecase.AuthUsecase.
type SessionGateway interface {
	ResolveUser(ctx context.Context, accessToken string) (*domain.User, error)
}

// Auth guards a route group. It extracts the bearer token, resolves it
// through the gateway and stores the user in the gin context. Expired and
// otherwise-invalid tokens both answer 401 (with a WWW-Authenticate hint);
// the error kinds stay distinct in the response body for debugging. A
// subject deleted after issuance answers 404.
func Auth(gateway SessionGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c, domain.ErrUnauthorized.Error())
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		user, err := gateway.ResolveUser(c.Request.Context(), rawToken)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				unauthorized(c, domain.ErrTokenExpired.Error())
			case errors.Is(err, domain.ErrUserNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound,
					gin.H{"error": domain.ErrUserNotFound.Error()})
			default:
				unauthorized(c, domain.ErrUnauthorized.Error())
			}
			return
		}

		c.Set(userKey, user)
		// Downstream log records carry the resolved user.
		c.Request = c.Request.WithContext(ctxlog.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// CurrentUser returns the user resolved by Auth. Routes behind the
// middleware can rely on it being present.
func CurrentUser(c *gin.Context) *domain.User {
	user, _ := c.MustGet(userKey).(*domain.User)
	return user
}
