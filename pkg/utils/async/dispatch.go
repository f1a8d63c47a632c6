package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch executes a handler asynchronously with panic recovery. This lets
// the webhook handlers acknowledge Slack within its 3 second deadline while
// processing continues in background.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := NewBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(newCtx).Error("Panic in async handler",
					"recover", r,
					"stack", string(stack),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("Error in async handler",
				"error", err,
			)
		}
	}()
}

// NewBackgroundContext returns a context detached from the request lifetime
// that still carries the request's logger.
func NewBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()

	if logger := ctxlog.From(ctx); logger != nil {
		newCtx = ctxlog.With(newCtx, logger)
	}

	return newCtx
}
