package faqrepo

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

// PostgresRepository implements faqgen.FAQRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new FAQ row.
func (r *PostgresRepository) Create(ctx context.Context, f faqgen.FAQ) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO faqs (id, question, answer, category, status, confidence_score, approved_by, approved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, f.ID, f.Question, f.Answer, f.Category, string(f.Status), f.ConfidenceScore, f.ApprovedBy, f.ApprovedAt, f.CreatedAt, f.UpdatedAt)
	return err
}

// Get fetches a FAQ by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (faqgen.FAQ, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, answer, category, status, confidence_score, approved_by, approved_at, created_at, updated_at
		FROM faqs
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return faqgen.FAQ{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return faqgen.FAQ{}, false, rows.Err()
	}
	f, err := scanFAQ(rows)
	if err != nil {
		return faqgen.FAQ{}, false, err
	}
	return f, true, rows.Err()
}

// Update rewrites all mutable columns of a FAQ.
func (r *PostgresRepository) Update(ctx context.Context, f faqgen.FAQ) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE faqs
		SET question = $2, answer = $3, category = $4, status = $5, confidence_score = $6,
		    approved_by = $7, approved_at = $8, updated_at = $9
		WHERE id = $1
	`, f.ID, f.Question, f.Answer, f.Category, string(f.Status), f.ConfidenceScore, f.ApprovedBy, f.ApprovedAt, f.UpdatedAt)
	return err
}

// Delete removes a FAQ row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFAQ(row rowScanner) (faqgen.FAQ, error) {
	var (
		f          faqgen.FAQ
		status     string
		approvedBy sql.NullString
		approvedAt sql.NullTime
	)
	if err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.Category, &status, &f.ConfidenceScore, &approvedBy, &approvedAt, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return faqgen.FAQ{}, err
	}
	f.Status = faqgen.FAQStatus(status)
	if approvedBy.Valid {
		by := approvedBy.String
		f.ApprovedBy = &by
	}
	if approvedAt.Valid {
		at := approvedAt.Time.UTC()
		f.ApprovedAt = &at
	}
	return f, nil
}

var _ faqgen.FAQRepository = (*PostgresRepository)(nil)
