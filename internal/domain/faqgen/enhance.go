package faqgen

import (
	"context"

	apperrors "github.com/kbforge/faq-engine/pkg/errors"
)

// EnhanceFAQ folds new content into an existing FAQ instead of creating a
// redundant one.
func (e *engine) EnhanceFAQ(ctx context.Context, faqID string, content NewContent, userID string) (FAQ, error) {
	return e.enhanceExisting(ctx, faqID, content, userID)
}

func (e *engine) enhanceExisting(ctx context.Context, faqID string, content NewContent, userID string) (FAQ, error) {
	existing, found, err := e.faqs.Get(ctx, faqID)
	if err != nil {
		return FAQ{}, apperrors.Wrap("faq_error", "load faq failed", err)
	}
	if !found {
		return FAQ{}, apperrors.Wrap("not_found", "faq "+faqID+" does not exist", nil)
	}

	merged, err := e.completions.Enhance(ctx,
		QA{Question: existing.Question, Answer: existing.Answer},
		QA{Question: content.Question, Answer: content.Answer})
	if err != nil {
		return FAQ{}, apperrors.Wrap("llm_error", "enhancement merge failed", err)
	}

	existing.Question = merged.Question
	existing.Answer = merged.Answer
	existing.ConfidenceScore = merged.Confidence
	// Content changed, so prior approval no longer applies.
	existing.Status = StatusPending
	existing.ApprovedBy = nil
	existing.ApprovedAt = nil
	existing.UpdatedAt = e.now()

	if err := e.faqs.Update(ctx, existing); err != nil {
		return FAQ{}, apperrors.Wrap("faq_error", "update faq failed", err)
	}

	// The embedding must reflect the merged text. A failed re-embed leaves it
	// transiently stale until the next successful store; the record update
	// still stands.
	if vector, embedErr := e.embedder.Embed(ctx, existing.Question+" "+existing.Answer); embedErr != nil {
		e.logger.Warn("re-embed after enhancement failed", "faq_id", existing.ID, "error", embedErr)
	} else if storeErr := e.index.StoreEmbedding(ctx, existing.ID, vector, MetadataFor(existing)); storeErr != nil {
		e.logger.Warn("embedding upsert after enhancement failed", "faq_id", existing.ID, "error", storeErr)
	}

	if content.SourceDocumentID != "" {
		// The only path that produces HYBRID provenance edges.
		edge := DocumentFAQ{
			DocumentID:       content.SourceDocumentID,
			FAQID:            existing.ID,
			GenerationMethod: MethodHybrid,
			ConfidenceScore:  existing.ConfidenceScore,
			GeneratedBy:      userID,
			CreatedAt:        e.now(),
		}
		if relErr := e.rels.CreateDocumentFAQ(ctx, edge); relErr != nil {
			e.logger.Warn("hybrid provenance edge failed", "faq_id", existing.ID, "document_id", content.SourceDocumentID, "error", relErr)
		}
	}

	return existing, nil
}
