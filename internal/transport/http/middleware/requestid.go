package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/thiagodsaraujo/todo-auth-api/internal/requestid"
)

// RequestID injects a request ID into the context and response header. An
// inbound X-Request-ID is kept if it passes sanitization, otherwise a fresh
// UUID v4 is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestid.Sanitize(c.GetHeader(requestid.Header))

		ctx := requestid.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestid.Header, id)
		c.Next()
	}
}
