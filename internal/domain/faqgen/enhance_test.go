package faqgen

import (
	"context"
	"testing"

	apperrors "github.com/kbforge/faq-engine/pkg/errors"
)

func approvedFAQ(id string) FAQ {
	by := "reviewer"
	at := fixedTime()
	return FAQ{
		ID:              id,
		Question:        "old question",
		Answer:          "old answer",
		Category:        "it-support",
		Status:          StatusApproved,
		ConfidenceScore: 0.82,
		ApprovedBy:      &by,
		ApprovedAt:      &at,
	}
}

func TestEnhanceFAQMergesAndResetsApproval(t *testing.T) {
	e, deps := newTestEngine(engineDeps{})
	deps.faqs.faqs["faq-1"] = approvedFAQ("faq-1")
	deps.completions.enhanced = EnhancedQA{Question: "merged q", Answer: "merged a", Confidence: 0.95}

	got, err := e.EnhanceFAQ(context.Background(), "faq-1", NewContent{Question: "new q", Answer: "new a"}, "u-1")
	if err != nil {
		t.Fatalf("EnhanceFAQ: %v", err)
	}
	if got.Question != "merged q" || got.Answer != "merged a" || got.ConfidenceScore != 0.95 {
		t.Errorf("merged FAQ = %+v", got)
	}
	if got.Status != StatusPending {
		t.Errorf("status = %s, want PENDING after content change", got.Status)
	}
	if got.ApprovedBy != nil || got.ApprovedAt != nil {
		t.Errorf("approval metadata survived enhancement: by=%v at=%v", got.ApprovedBy, got.ApprovedAt)
	}
	// The embedding tracks the merged text.
	if _, ok := deps.index.stored["faq-1"]; !ok {
		t.Errorf("merged embedding was not stored")
	}
	if meta := deps.index.storedMeta["faq-1"]; meta.QuestionPrefix != "merged q" || meta.Status != StatusPending {
		t.Errorf("stored metadata = %+v", meta)
	}
}

func TestEnhanceFAQNotFound(t *testing.T) {
	e, _ := newTestEngine(engineDeps{})
	_, err := e.EnhanceFAQ(context.Background(), "missing", NewContent{Question: "q", Answer: "a"}, "")
	if !apperrors.IsCode(err, "not_found") {
		t.Fatalf("error = %v, want not_found", err)
	}
}

func TestEnhanceFAQGatewayFailureLeavesRecordUntouched(t *testing.T) {
	e, deps := newTestEngine(engineDeps{})
	deps.faqs.faqs["faq-1"] = approvedFAQ("faq-1")
	deps.completions.enhanceErr = errBoom

	_, err := e.EnhanceFAQ(context.Background(), "faq-1", NewContent{Question: "q", Answer: "a"}, "")
	if !apperrors.IsCode(err, "llm_error") {
		t.Fatalf("error = %v, want llm_error", err)
	}
	if got := deps.faqs.faqs["faq-1"]; got.Question != "old question" || got.Status != StatusApproved {
		t.Errorf("record mutated despite merge failure: %+v", got)
	}
}

func TestEnhanceFAQEmbedFailureIsNonFatal(t *testing.T) {
	e, deps := newTestEngine(engineDeps{})
	deps.faqs.faqs["faq-1"] = approvedFAQ("faq-1")
	deps.completions.enhanced = EnhancedQA{Question: "merged q", Answer: "merged a", Confidence: 0.9}
	deps.embedder.err = errBoom

	got, err := e.EnhanceFAQ(context.Background(), "faq-1", NewContent{Question: "q", Answer: "a"}, "")
	if err != nil {
		t.Fatalf("re-embed failure must not fail the enhancement, got %v", err)
	}
	if got.Question != "merged q" {
		t.Errorf("merged FAQ = %+v", got)
	}
	if len(deps.index.stored) != 0 {
		t.Errorf("embedding stored despite embed failure")
	}
}

func TestEnhanceFAQHybridEdgeOnlyWithSourceDocument(t *testing.T) {
	e, deps := newTestEngine(engineDeps{})
	deps.faqs.faqs["faq-1"] = approvedFAQ("faq-1")
	deps.completions.enhanced = EnhancedQA{Question: "m", Answer: "m", Confidence: 0.9}

	if _, err := e.EnhanceFAQ(context.Background(), "faq-1", NewContent{Question: "q", Answer: "a"}, "u-1"); err != nil {
		t.Fatalf("EnhanceFAQ: %v", err)
	}
	if len(deps.rels.documentFAQs) != 0 {
		t.Fatalf("manual enhancement must not create a document edge: %+v", deps.rels.documentFAQs)
	}

	if _, err := e.EnhanceFAQ(context.Background(), "faq-1", NewContent{Question: "q", Answer: "a", SourceDocumentID: "doc-9"}, "u-1"); err != nil {
		t.Fatalf("EnhanceFAQ: %v", err)
	}
	if len(deps.rels.documentFAQs) != 1 {
		t.Fatalf("document edges = %+v, want one", deps.rels.documentFAQs)
	}
	edge := deps.rels.documentFAQs[0]
	if edge.GenerationMethod != MethodHybrid || edge.DocumentID != "doc-9" || edge.GeneratedBy != "u-1" {
		t.Errorf("edge = %+v", edge)
	}
}
