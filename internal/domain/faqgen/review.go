package faqgen

import (
	"context"

	apperrors "github.com/kbforge/faq-engine/pkg/errors"
)

// ReviewFAQ applies an approve/reject decision and refreshes the index
// metadata snapshot so duplicate queries see the new status immediately.
func (e *engine) ReviewFAQ(ctx context.Context, faqID string, status FAQStatus, reviewedBy, feedback string) (FAQ, error) {
	if status != StatusApproved && status != StatusRejected {
		return FAQ{}, apperrors.Wrap("invalid_input", "review status must be APPROVED or REJECTED", nil)
	}

	faq, found, err := e.faqs.Get(ctx, faqID)
	if err != nil {
		return FAQ{}, apperrors.Wrap("faq_error", "load faq failed", err)
	}
	if !found {
		return FAQ{}, apperrors.Wrap("not_found", "faq "+faqID+" does not exist", nil)
	}

	now := e.now()
	faq.Status = status
	faq.UpdatedAt = now
	if status == StatusApproved {
		faq.ApprovedBy = &reviewedBy
		faq.ApprovedAt = &now
	} else {
		faq.ApprovedBy = nil
		faq.ApprovedAt = nil
	}

	if err := e.faqs.Update(ctx, faq); err != nil {
		return FAQ{}, apperrors.Wrap("faq_error", "update faq failed", err)
	}
	if feedback != "" {
		e.logger.Info("review feedback recorded", "faq_id", faq.ID, "reviewed_by", reviewedBy, "feedback", feedback)
	}

	if err := e.index.UpdateMetadata(ctx, faq.ID, MetadataFor(faq)); err != nil {
		e.logger.Warn("index metadata refresh failed", "faq_id", faq.ID, "status", status, "error", err)
	}

	return faq, nil
}

// FindSimilarFAQs is the browse-oriented similarity search. The caller
// supplies the score floor; the duplicate thresholds do not apply here.
func (e *engine) FindSimilarFAQs(ctx context.Context, query string, opts SearchOptions) ([]SimilarFAQ, error) {
	if query == "" {
		return nil, apperrors.Wrap("invalid_input", "query cannot be empty", nil)
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = e.cfg.DuplicateTopK
	}
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = e.cfg.MinSearchScore
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap("llm_error", "query embedding failed", err)
	}

	filter := Filter{StatusIn: opts.StatusIn}
	if opts.Category != "" {
		category := opts.Category
		filter.Category = &category
	}
	matches, err := e.index.Query(ctx, vector, topK, filter)
	if err != nil {
		return nil, err
	}

	results := make([]SimilarFAQ, 0, len(matches))
	for _, m := range matches {
		if m.Score < minScore {
			continue
		}
		faq, found, err := e.faqs.Get(ctx, m.ID)
		if err != nil {
			return nil, apperrors.Wrap("faq_error", "load matched faq failed", err)
		}
		if !found {
			// Index row outlived its record; the metadata snapshot is all we
			// have, so drop the match rather than surface a phantom FAQ.
			e.logger.Warn("index match without faq record", "faq_id", m.ID)
			continue
		}
		results = append(results, SimilarFAQ{FAQ: faq, Similarity: m.Score, Metadata: m.Metadata})
	}
	return results, nil
}
