package faqgen

import (
	"context"
	"testing"

	apperrors "github.com/kbforge/faq-engine/pkg/errors"
)

func TestReviewFAQApprove(t *testing.T) {
	e, deps := newTestEngine(engineDeps{})
	deps.faqs.faqs["faq-1"] = FAQ{ID: "faq-1", Question: "q", Answer: "a", Status: StatusPending}

	got, err := e.ReviewFAQ(context.Background(), "faq-1", StatusApproved, "reviewer", "looks good")
	if err != nil {
		t.Fatalf("ReviewFAQ: %v", err)
	}
	if got.Status != StatusApproved {
		t.Errorf("status = %s, want APPROVED", got.Status)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != "reviewer" {
		t.Errorf("approvedBy = %v", got.ApprovedBy)
	}
	if got.ApprovedAt == nil || !got.ApprovedAt.Equal(fixedTime()) {
		t.Errorf("approvedAt = %v", got.ApprovedAt)
	}
	// The index snapshot follows so duplicate checks see the new status.
	if meta, ok := deps.index.metaUpdates["faq-1"]; !ok || meta.Status != StatusApproved {
		t.Errorf("metadata refresh = %+v", deps.index.metaUpdates)
	}
}

func TestReviewFAQRejectClearsApproval(t *testing.T) {
	e, deps := newTestEngine(engineDeps{})
	deps.faqs.faqs["faq-1"] = approvedFAQ("faq-1")

	got, err := e.ReviewFAQ(context.Background(), "faq-1", StatusRejected, "reviewer", "")
	if err != nil {
		t.Fatalf("ReviewFAQ: %v", err)
	}
	if got.Status != StatusRejected || got.ApprovedBy != nil || got.ApprovedAt != nil {
		t.Errorf("rejected FAQ = %+v", got)
	}
	if meta := deps.index.metaUpdates["faq-1"]; meta.Status != StatusRejected {
		t.Errorf("metadata refresh = %+v", meta)
	}
}

func TestReviewFAQInvalidStatus(t *testing.T) {
	e, deps := newTestEngine(engineDeps{})
	deps.faqs.faqs["faq-1"] = FAQ{ID: "faq-1", Status: StatusPending}

	for _, status := range []FAQStatus{StatusPending, StatusArchived, "DELETED"} {
		if _, err := e.ReviewFAQ(context.Background(), "faq-1", status, "r", ""); !apperrors.IsCode(err, "invalid_input") {
			t.Errorf("status %s: error = %v, want invalid_input", status, err)
		}
	}
	if deps.faqs.updates != 0 {
		t.Errorf("invalid review wrote the record")
	}
}

func TestReviewFAQNotFound(t *testing.T) {
	e, _ := newTestEngine(engineDeps{})
	if _, err := e.ReviewFAQ(context.Background(), "missing", StatusApproved, "r", ""); !apperrors.IsCode(err, "not_found") {
		t.Fatalf("error = %v, want not_found", err)
	}
}

func TestFindSimilarFAQs(t *testing.T) {
	e, deps := newTestEngine(engineDeps{})
	deps.faqs.faqs["a"] = FAQ{ID: "a", Question: "qa", Status: StatusApproved}
	deps.faqs.faqs["b"] = FAQ{ID: "b", Question: "qb", Status: StatusPending}
	deps.index.matches = []IndexMatch{
		{ID: "a", Score: 0.9},
		{ID: "b", Score: 0.6},
		{ID: "low", Score: 0.4},
		{ID: "phantom", Score: 0.8},
	}

	got, err := e.FindSimilarFAQs(context.Background(), "vpn setup", SearchOptions{})
	if err != nil {
		t.Fatalf("FindSimilarFAQs: %v", err)
	}
	// 0.4 falls under the default floor, phantom has no record.
	if len(got) != 2 {
		t.Fatalf("results = %+v, want 2", got)
	}
	if got[0].FAQ.ID != "a" || got[0].Similarity != 0.9 {
		t.Errorf("first result = %+v", got[0])
	}
	if deps.index.lastTopK != DefaultDuplicateTopK {
		t.Errorf("topK = %d, want default %d", deps.index.lastTopK, DefaultDuplicateTopK)
	}
}

func TestFindSimilarFAQsOptions(t *testing.T) {
	e, deps := newTestEngine(engineDeps{})
	deps.index.matches = []IndexMatch{{ID: "a", Score: 0.55}}
	deps.faqs.faqs["a"] = FAQ{ID: "a"}

	got, err := e.FindSimilarFAQs(context.Background(), "query", SearchOptions{
		Category: "billing",
		StatusIn: []FAQStatus{StatusApproved},
		TopK:     3,
		MinScore: 0.6,
	})
	if err != nil {
		t.Fatalf("FindSimilarFAQs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("score 0.55 survived minScore 0.6: %+v", got)
	}
	if deps.index.lastTopK != 3 {
		t.Errorf("topK = %d, want 3", deps.index.lastTopK)
	}
	if deps.index.lastFilter.Category == nil || *deps.index.lastFilter.Category != "billing" {
		t.Errorf("filter = %+v", deps.index.lastFilter)
	}
	if len(deps.index.lastFilter.StatusIn) != 1 || deps.index.lastFilter.StatusIn[0] != StatusApproved {
		t.Errorf("status filter = %v", deps.index.lastFilter.StatusIn)
	}
}

func TestFindSimilarFAQsEmptyQuery(t *testing.T) {
	e, _ := newTestEngine(engineDeps{})
	if _, err := e.FindSimilarFAQs(context.Background(), "", SearchOptions{}); !apperrors.IsCode(err, "invalid_input") {
		t.Fatalf("error = %v, want invalid_input", err)
	}
}
