package queue

import (
	"context"
	"log/slog"
)

// ImmediateQueue runs every job synchronously in the caller's goroutine.
// Used when no Valkey address is configured.
type ImmediateQueue struct {
	handler Handler
	logger  *slog.Logger
}

// NewImmediateQueue constructs the queue.
func NewImmediateQueue(logger *slog.Logger) *ImmediateQueue {
	return &ImmediateQueue{logger: logger.With("component", "queue.immediate")}
}

func (q *ImmediateQueue) SetHandler(handler Handler) {
	q.handler = handler
}

func (q *ImmediateQueue) Enqueue(ctx context.Context, name string, payload map[string]any) error {
	if q.handler == nil {
		q.logger.Warn("job dropped, no handler registered", "job", name)
		return nil
	}
	q.handler(ctx, name, payload)
	return nil
}

var _ HandlerQueue = (*ImmediateQueue)(nil)
