package faqgen

import (
	"context"
	"sort"

	"github.com/google/uuid"

	apperrors "github.com/kbforge/faq-engine/pkg/errors"
)

type resolutionState int

const (
	stateCreated resolutionState = iota
	stateEnhanced
	stateSkipped
)

// candidateOutcome is the terminal state of one candidate plus the material
// the relationship tracker needs afterwards.
type candidateOutcome struct {
	state     resolutionState
	faq       FAQ
	candidate Candidate
}

// resolveCandidate runs the per-candidate state machine: embed, query,
// apply thresholds, then create, skip or enhance.
func (e *engine) resolveCandidate(ctx context.Context, cand Candidate, fallbackCategory, documentID, userID string) (candidateOutcome, error) {
	category := cand.Category
	if category == "" {
		category = fallbackCategory
	}

	vector, err := e.embedder.Embed(ctx, cand.Question+" "+cand.Answer)
	if err != nil {
		return candidateOutcome{}, apperrors.Wrap("llm_error", "candidate embedding failed", err)
	}

	if !e.cfg.AlwaysCreate {
		check, err := e.checkDuplicate(ctx, vector, category)
		if err != nil {
			return candidateOutcome{}, err
		}
		if check.IsDuplicate {
			best := check.Matches[0]
			if best.Score >= e.cfg.EnhancementThreshold {
				faq, err := e.enhanceExisting(ctx, best.ID, NewContent{
					Question:         cand.Question,
					Answer:           cand.Answer,
					SourceDocumentID: documentID,
				}, userID)
				if err != nil {
					return candidateOutcome{}, err
				}
				return candidateOutcome{state: stateEnhanced, faq: faq, candidate: cand}, nil
			}
			e.logger.Info("near-duplicate skipped", "match_id", best.ID, "score", best.Score)
			return candidateOutcome{state: stateSkipped, candidate: cand}, nil
		}
	}

	faq, err := e.createFAQ(ctx, cand, category, vector)
	if err != nil {
		return candidateOutcome{}, err
	}
	return candidateOutcome{state: stateCreated, faq: faq, candidate: cand}, nil
}

// checkDuplicate queries the index restricted to the candidate's category and
// to statuses that are valid duplicate targets. Rejected and archived FAQs
// are never duplicate targets.
func (e *engine) checkDuplicate(ctx context.Context, vector []float32, category string) (DuplicateCheckResult, error) {
	filter := Filter{StatusIn: []FAQStatus{StatusPending, StatusApproved}}
	if category != "" {
		filter.Category = &category
	}
	matches, err := e.index.Query(ctx, vector, e.cfg.DuplicateTopK, filter)
	if err != nil {
		return DuplicateCheckResult{}, err
	}

	kept := matches[:0]
	for _, m := range matches {
		if m.Score >= e.cfg.SimilarityThreshold {
			kept = append(kept, m)
		}
	}
	// The index returns matches score-descending; re-sort in case an
	// implementation does not guarantee it.
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })

	return DuplicateCheckResult{IsDuplicate: len(kept) > 0, Matches: kept}, nil
}

// createFAQ persists a new PENDING record then upserts its embedding. The
// record is rolled back when the upsert exhausts its retries so a FAQ is
// never queryable without an index row beyond one retried attempt.
func (e *engine) createFAQ(ctx context.Context, cand Candidate, category string, vector []float32) (FAQ, error) {
	now := e.now()
	faq := FAQ{
		ID:              uuid.NewString(),
		Question:        cand.Question,
		Answer:          cand.Answer,
		Category:        category,
		Status:          StatusPending,
		ConfidenceScore: cand.Confidence,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := e.faqs.Create(ctx, faq); err != nil {
		return FAQ{}, apperrors.Wrap("faq_error", "create faq failed", err)
	}
	if err := e.index.StoreEmbedding(ctx, faq.ID, vector, MetadataFor(faq)); err != nil {
		if delErr := e.faqs.Delete(ctx, faq.ID); delErr != nil {
			e.logger.Error("rollback of unindexed faq failed", "faq_id", faq.ID, "error", delErr)
		}
		return FAQ{}, err
	}
	return faq, nil
}
