package docrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

// PostgresRepository reads curated documents and their ordered messages.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get loads a document with its messages in list order.
func (r *PostgresRepository) Get(ctx context.Context, id string) (faqgen.Document, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, category
		FROM documents
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return faqgen.Document{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return faqgen.Document{}, false, rows.Err()
	}
	var doc faqgen.Document
	if err := rows.Scan(&doc.ID, &doc.Title, &doc.Description, &doc.Category); err != nil {
		return faqgen.Document{}, false, err
	}
	rows.Close()

	msgRows, err := r.pool.Query(ctx, `
		SELECT id, text, username, role, timestamp
		FROM document_messages
		WHERE document_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return faqgen.Document{}, false, err
	}
	defer msgRows.Close()
	for msgRows.Next() {
		var (
			msg  faqgen.Message
			role string
		)
		if err := msgRows.Scan(&msg.ID, &msg.Text, &msg.Username, &role, &msg.Timestamp); err != nil {
			return faqgen.Document{}, false, err
		}
		msg.Role = faqgen.MessageRole(role)
		doc.Messages = append(doc.Messages, msg)
	}
	if err := msgRows.Err(); err != nil {
		return faqgen.Document{}, false, err
	}
	return doc, true, nil
}

var _ faqgen.DocumentRepository = (*PostgresRepository)(nil)
