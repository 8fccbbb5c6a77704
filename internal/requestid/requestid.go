package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header the request ID travels in, both inbound (a
// client or proxy may already have assigned one) and on every response.
const Header = "X-Request-ID"

// maxLen caps inbound IDs so a hostile client cannot bloat every log line.
const maxLen = 64

type ctxKey struct{}

// New generates a random UUID v4 request ID.
func New() string {
	return uuid.NewString()
}

// Sanitize returns the inbound ID if it is usable, or a fresh one.
func Sanitize(id string) string {
	if id == "" || len(id) > maxLen {
		return New()
	}
	return id
}

// WithRequestID returns a copy of ctx with the request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the request ID from ctx. Returns "" if absent.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
