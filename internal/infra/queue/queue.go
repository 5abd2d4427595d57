package queue

import "context"

// Job names understood by the engine dispatcher.
const (
	JobGenerateDocument = "faq.generate_document"
	JobGenerateBatch    = "faq.generate_batch"
)

// Handler consumes one dequeued job.
type Handler func(ctx context.Context, name string, payload map[string]any)

// HandlerQueue is a job queue that delivers to a registered handler.
type HandlerQueue interface {
	Enqueue(ctx context.Context, name string, payload map[string]any) error
	SetHandler(handler Handler)
}
