package vectorindex

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

type memoryRow struct {
	vector []float32
	meta   faqgen.IndexMetadata
}

// MemoryIndex is an in-process faqgen.VectorIndex used in tests and when no
// Postgres DSN is configured.
type MemoryIndex struct {
	mu        sync.RWMutex
	rows      map[string]memoryRow
	dimension int
	capacity  int64
	embedder  faqgen.Embedder
	logger    *slog.Logger
}

// NewMemoryIndex constructs the in-memory index.
func NewMemoryIndex(dimension int, embedder faqgen.Embedder, logger *slog.Logger) *MemoryIndex {
	if dimension <= 0 {
		dimension = 768
	}
	return &MemoryIndex{
		rows:      make(map[string]memoryRow),
		dimension: dimension,
		embedder:  embedder,
		logger:    logger.With("component", "vectorindex.memory"),
	}
}

func (m *MemoryIndex) StoreEmbedding(_ context.Context, id string, vector []float32, meta faqgen.IndexMetadata) error {
	if len(vector) != m.dimension {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vector), m.dimension)
	}
	stored := make([]float32, len(vector))
	copy(stored, vector)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id] = memoryRow{vector: stored, meta: meta}
	return nil
}

func (m *MemoryIndex) StoreEmbeddingsBatch(ctx context.Context, items []faqgen.BatchItem) (int, error) {
	stored := 0
	for _, item := range items {
		vector, err := m.embedder.Embed(ctx, item.Text)
		if err != nil {
			m.logger.Warn("batch item embedding failed, dropping item", "id", item.ID, "error", err)
			continue
		}
		if err := m.StoreEmbedding(ctx, item.ID, vector, item.Metadata); err != nil {
			m.logger.Warn("batch item store failed, dropping item", "id", item.ID, "error", err)
			continue
		}
		stored++
	}
	return stored, nil
}

func (m *MemoryIndex) Query(_ context.Context, vector []float32, topK int, filter faqgen.Filter) ([]faqgen.IndexMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches := make([]faqgen.IndexMatch, 0, len(m.rows))
	for id, row := range m.rows {
		if !matchesFilter(row.meta, filter) {
			continue
		}
		matches = append(matches, faqgen.IndexMatch{
			ID:       id,
			Score:    cosineSimilarity(vector, row.vector),
			Metadata: row.meta,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (m *MemoryIndex) UpdateMetadata(_ context.Context, id string, meta faqgen.IndexMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil
	}
	row.meta = meta
	m.rows[id] = row
	return nil
}

func (m *MemoryIndex) DeleteEmbedding(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *MemoryIndex) DeleteEmbeddingsBatch(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := m.DeleteEmbedding(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryIndex) EnsureIndexExists(context.Context) error {
	return nil
}

func (m *MemoryIndex) Stats(context.Context) (faqgen.IndexStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := faqgen.IndexStats{VectorCount: int64(len(m.rows)), Dimension: m.dimension}
	if m.capacity > 0 {
		stats.Fullness = float64(len(m.rows)) / float64(m.capacity)
	}
	return stats, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ faqgen.VectorIndex = (*MemoryIndex)(nil)
