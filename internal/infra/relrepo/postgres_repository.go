package relrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

// PostgresRepository persists provenance edges using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// CreateDocumentFAQ records a document-to-FAQ edge.
func (r *PostgresRepository) CreateDocumentFAQ(ctx context.Context, edge faqgen.DocumentFAQ) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO document_faqs (document_id, faq_id, generation_method, source_message_ids, confidence_score, generated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, edge.DocumentID, edge.FAQID, string(edge.GenerationMethod), edge.SourceMessageIDs, edge.ConfidenceScore, edge.GeneratedBy, edge.CreatedAt)
	return err
}

// CreateMessageFAQ records a message-to-FAQ edge.
func (r *PostgresRepository) CreateMessageFAQ(ctx context.Context, edge faqgen.MessageFAQ) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO message_faqs (message_id, faq_id, contribution_type, document_id)
		VALUES ($1, $2, $3, $4)
	`, edge.MessageID, edge.FAQID, string(edge.ContributionType), edge.DocumentID)
	return err
}

var _ faqgen.RelationshipRepository = (*PostgresRepository)(nil)
