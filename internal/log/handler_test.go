package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	ctxlog "github.com/thiagodsaraujo/todo-auth-api/internal/log"
	"github.com/thiagodsaraujo/todo-auth-api/internal/requestid"
)

func newBufLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := ctxlog.NewContextHandler(slog.NewJSONHandler(&buf, nil))
	return slog.New(handler), &buf
}

func TestContextHandler_AddsRequestAndUserIDs(t *testing.T) {
	logger, buf := newBufLogger()

	ctx := requestid.WithRequestID(context.Background(), "req-123")
	ctx = ctxlog.WithUserID(ctx, "U1")

	logger.InfoContext(ctx, "hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-123"`) {
		t.Errorf("log line missing request_id: %s", out)
	}
	if !strings.Contains(out, `"user_id":"U1"`) {
		t.Errorf("log line missing user_id: %s", out)
	}
}

func TestContextHandler_PlainContext_NoIDs(t *testing.T) {
	logger, buf := newBufLogger()

	logger.InfoContext(context.Background(), "hello")

	out := buf.String()
	if strings.Contains(out, "request_id") || strings.Contains(out, "user_id") {
		t.Errorf("log line should carry no identifiers: %s", out)
	}
}
