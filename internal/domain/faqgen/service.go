package faqgen

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/kbforge/faq-engine/pkg/errors"
	"github.com/kbforge/faq-engine/pkg/util"
)

// Service is the engine contract consumed by the job queue and HTTP layer.
type Service interface {
	GenerateFAQsFromDocument(ctx context.Context, documentID string, opts GenerateOptions) (DocumentResult, error)
	GenerateFAQsFromMultipleDocuments(ctx context.Context, documentIDs []string, opts GenerateOptions) (BatchResult, error)
	EnhanceFAQ(ctx context.Context, faqID string, content NewContent, userID string) (FAQ, error)
	ReviewFAQ(ctx context.Context, faqID string, status FAQStatus, reviewedBy, feedback string) (FAQ, error)
	FindSimilarFAQs(ctx context.Context, query string, opts SearchOptions) ([]SimilarFAQ, error)
	HealthCheck(ctx context.Context) HealthStatus
}

type engine struct {
	cfg         Config
	faqs        FAQRepository
	docs        DocumentRepository
	rels        RelationshipRepository
	index       VectorIndex
	embedder    Embedder
	completions CompletionGateway
	logger      *slog.Logger
	now         func() time.Time
}

// NewEngine wires up the FAQ generation engine.
func NewEngine(cfg Config, faqs FAQRepository, docs DocumentRepository, rels RelationshipRepository, index VectorIndex, embedder Embedder, completions CompletionGateway, logger *slog.Logger) Service {
	return &engine{
		cfg:         cfg.withDefaults(),
		faqs:        faqs,
		docs:        docs,
		rels:        rels,
		index:       index,
		embedder:    embedder,
		completions: completions,
		logger:      logger.With("component", "faqgen.engine"),
		now:         util.NowUTC,
	}
}

// GenerateFAQsFromDocument runs the full candidate pipeline for one document.
// Candidates are processed sequentially so each duplicate check sees the
// index state left by the previous candidate in the same run.
func (e *engine) GenerateFAQsFromDocument(ctx context.Context, documentID string, opts GenerateOptions) (DocumentResult, error) {
	start := time.Now()

	doc, found, err := e.docs.Get(ctx, documentID)
	if err != nil {
		return DocumentResult{}, apperrors.Wrap("faq_error", "load document failed", err)
	}
	if !found {
		return DocumentResult{}, apperrors.Wrap("not_found", "document "+documentID+" does not exist", nil)
	}

	category := doc.Category
	if opts.CategoryOverride != "" {
		category = opts.CategoryOverride
	}

	candidates := e.generateCandidates(ctx, doc, category)
	accepted := filterCandidates(candidates, e.cfg.ConfidenceThreshold, e.cfg.MaxFAQsPerDocument)
	e.logger.Info("candidates accepted",
		"document_id", documentID,
		"proposed", len(candidates),
		"accepted", len(accepted))

	result := DocumentResult{DocumentID: documentID, FAQs: []FAQ{}}
	var outcomes []candidateOutcome
	for i, cand := range accepted {
		outcome, err := e.resolveCandidate(ctx, cand, category, doc.ID, opts.UserID)
		if err != nil {
			e.logger.Warn("candidate resolution failed, skipping",
				"document_id", documentID,
				"candidate", i,
				"error", err)
			continue
		}
		switch outcome.state {
		case stateCreated:
			result.FAQs = append(result.FAQs, outcome.faq)
			outcomes = append(outcomes, outcome)
		case stateEnhanced:
			result.DuplicatesFound++
			result.EnhancedExisting++
			outcomes = append(outcomes, outcome)
		case stateSkipped:
			result.DuplicatesFound++
		}
	}

	e.trackRelationships(ctx, doc, opts.UserID, outcomes)

	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	return result, nil
}

// GenerateFAQsFromMultipleDocuments processes a batch. Per-document failures
// are recorded and skipped, never fatal to the batch.
func (e *engine) GenerateFAQsFromMultipleDocuments(ctx context.Context, documentIDs []string, opts GenerateOptions) (BatchResult, error) {
	var batch BatchResult
	for _, id := range documentIDs {
		res, err := e.GenerateFAQsFromDocument(ctx, id, opts)
		if err != nil {
			e.logger.Warn("document processing failed, skipping", "document_id", id, "error", err)
			batch.Failures = append(batch.Failures, BatchFailure{DocumentID: id, Error: err.Error()})
			continue
		}
		batch.Results = append(batch.Results, res)
		batch.TotalFAQs += len(res.FAQs)
		batch.TotalDuplicates += res.DuplicatesFound
	}
	return batch, nil
}

// HealthCheck aggregates index stats without propagating failures.
func (e *engine) HealthCheck(ctx context.Context) HealthStatus {
	stats, err := e.index.Stats(ctx)
	if err != nil {
		return HealthStatus{IsHealthy: false, Error: err.Error()}
	}
	return HealthStatus{IsHealthy: true, Stats: &stats}
}

// generateCandidates degrades to zero candidates when the gateway is down.
func (e *engine) generateCandidates(ctx context.Context, doc Document, category string) []Candidate {
	req := CandidateRequest{
		Title:       doc.Title,
		Description: doc.Description,
		Category:    category,
		Messages:    doc.Messages,
	}
	candidates, err := e.completions.GenerateCandidates(ctx, req)
	if err != nil {
		e.logger.Warn("candidate generation failed, continuing with zero candidates",
			"document_id", doc.ID,
			"error", err)
		return nil
	}
	return candidates
}

// filterCandidates applies the confidence floor and per-document cap before
// any index interaction. Surplus candidates beyond the cap are dropped even
// when qualified.
func filterCandidates(candidates []Candidate, minConfidence float64, cap int) []Candidate {
	accepted := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Confidence < minConfidence {
			continue
		}
		accepted = append(accepted, c)
		if len(accepted) == cap {
			break
		}
	}
	return accepted
}
