package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

// batchChunkSize bounds how many items a single upsert/delete statement
// carries.
const batchChunkSize = 100

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Config describes the pgvector-backed index.
type Config struct {
	Table             string
	Dimension         int
	Capacity          int64
	ReadinessAttempts int
	ReadinessInterval time.Duration
	Retry             RetryPolicy
}

func (c Config) withDefaults() Config {
	if c.Table == "" {
		c.Table = "faq_embeddings"
	}
	if c.Dimension <= 0 {
		c.Dimension = 768
	}
	if c.ReadinessAttempts <= 0 {
		c.ReadinessAttempts = 10
	}
	if c.ReadinessInterval <= 0 {
		c.ReadinessInterval = 2 * time.Second
	}
	c.Retry = c.Retry.normalized()
	return c
}

// Client implements faqgen.VectorIndex on Postgres with the pgvector
// extension. Every remote call passes through the retry wrapper.
type Client struct {
	pool     *pgxpool.Pool
	cfg      Config
	embedder faqgen.Embedder
	sleep    Sleeper
	logger   *slog.Logger
}

// NewClient constructs the index client. The embedder is used by the batched
// store path, which embeds each item before upserting.
func NewClient(pool *pgxpool.Pool, cfg Config, embedder faqgen.Embedder, logger *slog.Logger) (*Client, error) {
	cfg = cfg.withDefaults()
	if !tableNamePattern.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid index table name %q", cfg.Table)
	}
	return &Client{
		pool:     pool,
		cfg:      cfg,
		embedder: embedder,
		sleep:    sleepWithContext,
		logger:   logger.With("component", "vectorindex.client"),
	}, nil
}

// WithSleeper overrides the backoff sleeper, for tests.
func (c *Client) WithSleeper(sleep Sleeper) *Client {
	c.sleep = sleep
	return c
}

// StoreEmbedding upserts a single vector. Re-storing an id overwrites the
// previous vector, never duplicates it.
func (c *Client) StoreEmbedding(ctx context.Context, id string, vector []float32, meta faqgen.IndexMetadata) error {
	if len(vector) != c.cfg.Dimension {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vector), c.cfg.Dimension)
	}
	sql := fmt.Sprintf(`
		INSERT INTO %s (id, embedding, category, status, question_prefix, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			question_prefix = EXCLUDED.question_prefix,
			updated_at = now()
	`, c.cfg.Table)
	return c.retry(ctx, "store_embedding", func(ctx context.Context) error {
		_, err := c.pool.Exec(ctx, sql, id, pgvector.NewVector(vector), meta.Category, string(meta.Status), meta.QuestionPrefix)
		return err
	})
}

// StoreEmbeddingsBatch embeds and upserts items in chunks of 100. Embedding
// failures drop the failed item only; the batch succeeds partially rather
// than failing atomically. Returns how many items were stored.
func (c *Client) StoreEmbeddingsBatch(ctx context.Context, items []faqgen.BatchItem) (int, error) {
	stored := 0
	for start := 0; start < len(items); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(items) {
			end = len(items)
		}
		n, err := c.storeChunk(ctx, items[start:end])
		stored += n
		if err != nil {
			return stored, err
		}
	}
	return stored, nil
}

type embeddedItem struct {
	item   faqgen.BatchItem
	vector []float32
}

func (c *Client) storeChunk(ctx context.Context, chunk []faqgen.BatchItem) (int, error) {
	embedded := make([]embeddedItem, 0, len(chunk))
	for _, item := range chunk {
		vector, err := c.embedder.Embed(ctx, item.Text)
		if err != nil {
			c.logger.Warn("batch item embedding failed, dropping item", "id", item.ID, "error", err)
			continue
		}
		embedded = append(embedded, embeddedItem{item: item, vector: vector})
	}
	if len(embedded) == 0 {
		return 0, nil
	}

	sql := fmt.Sprintf(`
		INSERT INTO %s (id, embedding, category, status, question_prefix, updated_at)
		SELECT * FROM unnest($1::text[], $2::vector[], $3::text[], $4::text[], $5::text[], $6::timestamptz[])
		ON CONFLICT (id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			question_prefix = EXCLUDED.question_prefix,
			updated_at = EXCLUDED.updated_at
	`, c.cfg.Table)

	now := time.Now().UTC()
	ids := make([]string, len(embedded))
	vectors := make([]pgvector.Vector, len(embedded))
	categories := make([]string, len(embedded))
	statuses := make([]string, len(embedded))
	prefixes := make([]string, len(embedded))
	stamps := make([]time.Time, len(embedded))
	for i, e := range embedded {
		ids[i] = e.item.ID
		vectors[i] = pgvector.NewVector(e.vector)
		categories[i] = e.item.Metadata.Category
		statuses[i] = string(e.item.Metadata.Status)
		prefixes[i] = e.item.Metadata.QuestionPrefix
		stamps[i] = now
	}

	err := c.retry(ctx, "store_embeddings_batch", func(ctx context.Context) error {
		_, execErr := c.pool.Exec(ctx, sql, ids, vectors, categories, statuses, prefixes, stamps)
		return execErr
	})
	if err != nil {
		return 0, err
	}
	return len(embedded), nil
}

// Query returns up to topK matches ordered by descending cosine similarity.
func (c *Client) Query(ctx context.Context, vector []float32, topK int, filter faqgen.Filter) ([]faqgen.IndexMatch, error) {
	where, args := renderFilter(filter, 3)
	sql := fmt.Sprintf(`
		SELECT id, category, status, question_prefix, 1 - (embedding <=> $1) AS score
		FROM %s
		WHERE true%s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, c.cfg.Table, where)
	queryArgs := append([]any{pgvector.NewVector(vector), topK}, args...)

	var matches []faqgen.IndexMatch
	err := c.retry(ctx, "query", func(ctx context.Context) error {
		rows, err := c.pool.Query(ctx, sql, queryArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		matches = matches[:0]
		for rows.Next() {
			var (
				m      faqgen.IndexMatch
				status string
			)
			if err := rows.Scan(&m.ID, &m.Metadata.Category, &status, &m.Metadata.QuestionPrefix, &m.Score); err != nil {
				return err
			}
			m.Metadata.Status = faqgen.FAQStatus(status)
			matches = append(matches, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// UpdateMetadata refreshes the metadata snapshot without touching the vector.
func (c *Client) UpdateMetadata(ctx context.Context, id string, meta faqgen.IndexMetadata) error {
	sql := fmt.Sprintf(`
		UPDATE %s
		SET category = $2, status = $3, question_prefix = $4, updated_at = now()
		WHERE id = $1
	`, c.cfg.Table)
	return c.retry(ctx, "update_metadata", func(ctx context.Context) error {
		_, err := c.pool.Exec(ctx, sql, id, meta.Category, string(meta.Status), meta.QuestionPrefix)
		return err
	})
}

// DeleteEmbedding removes a single vector.
func (c *Client) DeleteEmbedding(ctx context.Context, id string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.cfg.Table)
	return c.retry(ctx, "delete_embedding", func(ctx context.Context) error {
		_, err := c.pool.Exec(ctx, sql, id)
		return err
	})
}

// DeleteEmbeddingsBatch removes vectors with the same chunking discipline as
// the batched store.
func (c *Client) DeleteEmbeddingsBatch(ctx context.Context, ids []string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, c.cfg.Table)
	for start := 0; start < len(ids); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]
		if err := c.retry(ctx, "delete_embeddings_batch", func(ctx context.Context) error {
			_, err := c.pool.Exec(ctx, sql, chunk)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// EnsureIndexExists provisions the table and HNSW cosine index if absent,
// then polls readiness with a bounded attempt budget. Idempotent and safe to
// call on every cold start.
func (c *Client) EnsureIndexExists(ctx context.Context) error {
	err := c.retry(ctx, "ensure_index", func(ctx context.Context) error {
		if _, err := c.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
			return err
		}
		var existing *string
		if err := c.pool.QueryRow(ctx, `SELECT to_regclass($1)::text`, c.cfg.Table).Scan(&existing); err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		createTable := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id text PRIMARY KEY,
				embedding vector(%d) NOT NULL,
				category text NOT NULL DEFAULT '',
				status text NOT NULL DEFAULT 'PENDING',
				question_prefix text NOT NULL DEFAULT '',
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`, c.cfg.Table, c.cfg.Dimension)
		if _, err := c.pool.Exec(ctx, createTable); err != nil {
			return err
		}
		createIndex := fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)`,
			c.cfg.Table, c.cfg.Table)
		_, err := c.pool.Exec(ctx, createIndex)
		return err
	})
	if err != nil {
		return err
	}
	return c.awaitReady(ctx)
}

func (c *Client) awaitReady(ctx context.Context) error {
	indexName := c.cfg.Table + "_embedding_idx"
	for attempt := 1; attempt <= c.cfg.ReadinessAttempts; attempt++ {
		var valid bool
		err := c.pool.QueryRow(ctx, `
			SELECT COALESCE(bool_and(i.indisvalid AND i.indisready), false)
			FROM pg_index i
			JOIN pg_class cl ON cl.oid = i.indexrelid
			WHERE cl.relname = $1
		`, indexName).Scan(&valid)
		if err == nil && valid {
			return nil
		}
		if err != nil {
			c.logger.Warn("index readiness probe failed", "attempt", attempt, "error", err)
		}
		if attempt == c.cfg.ReadinessAttempts {
			break
		}
		if sleepErr := c.sleep(ctx, c.cfg.ReadinessInterval); sleepErr != nil {
			return sleepErr
		}
	}
	return errors.New("index " + indexName + " never became ready within the attempt budget")
}

// Stats reports vector count, dimension and fullness for health checks.
func (c *Client) Stats(ctx context.Context) (faqgen.IndexStats, error) {
	var count int64
	sql := fmt.Sprintf(`SELECT count(*) FROM %s`, c.cfg.Table)
	err := c.retry(ctx, "stats", func(ctx context.Context) error {
		return c.pool.QueryRow(ctx, sql).Scan(&count)
	})
	if err != nil {
		return faqgen.IndexStats{}, err
	}
	stats := faqgen.IndexStats{VectorCount: count, Dimension: c.cfg.Dimension}
	if c.cfg.Capacity > 0 {
		stats.Fullness = float64(count) / float64(c.cfg.Capacity)
	}
	return stats, nil
}

func (c *Client) retry(ctx context.Context, op string, fn func(context.Context) error) error {
	return withRetry(ctx, c.cfg.Retry, c.sleep, c.logger, op, fn)
}

var _ faqgen.VectorIndex = (*Client)(nil)
