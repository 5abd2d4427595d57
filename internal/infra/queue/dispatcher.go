package queue

import (
	"context"
	"log/slog"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

// NewEngineDispatcher maps queue jobs onto engine calls. Job failures are
// logged; the queue offers no redelivery semantics beyond what the engine's
// own retries provide.
func NewEngineDispatcher(engine faqgen.Service, logger *slog.Logger) Handler {
	logger = logger.With("component", "queue.dispatcher")
	return func(ctx context.Context, name string, payload map[string]any) {
		switch name {
		case JobGenerateDocument:
			documentID, _ := payload["documentId"].(string)
			if documentID == "" {
				logger.Warn("generate_document job missing documentId")
				return
			}
			opts := optsFromPayload(payload)
			res, err := engine.GenerateFAQsFromDocument(ctx, documentID, opts)
			if err != nil {
				logger.Error("generate_document job failed", "document_id", documentID, "error", err)
				return
			}
			logger.Info("generate_document job finished",
				"document_id", documentID,
				"created", len(res.FAQs),
				"duplicates", res.DuplicatesFound,
				"enhanced", res.EnhancedExisting)
		case JobGenerateBatch:
			ids := stringSlice(payload["documentIds"])
			if len(ids) == 0 {
				logger.Warn("generate_batch job missing documentIds")
				return
			}
			opts := optsFromPayload(payload)
			res, err := engine.GenerateFAQsFromMultipleDocuments(ctx, ids, opts)
			if err != nil {
				logger.Error("generate_batch job failed", "error", err)
				return
			}
			logger.Info("generate_batch job finished",
				"documents", len(ids),
				"total_faqs", res.TotalFAQs,
				"total_duplicates", res.TotalDuplicates,
				"failures", len(res.Failures))
		default:
			logger.Warn("unknown job", "job", name)
		}
	}
}

func optsFromPayload(payload map[string]any) faqgen.GenerateOptions {
	opts := faqgen.GenerateOptions{}
	if v, ok := payload["category"].(string); ok {
		opts.CategoryOverride = v
	}
	if v, ok := payload["userId"].(string); ok {
		opts.UserID = v
	}
	return opts
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
