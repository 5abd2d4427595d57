package docrepo

import (
	"context"
	"sync"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

// MemoryRepository stores documents in process, for tests and DSN-less dev.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]faqgen.Document
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string]faqgen.Document)}
}

// Put registers a document.
func (r *MemoryRepository) Put(doc faqgen.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
}

func (r *MemoryRepository) Get(_ context.Context, id string) (faqgen.Document, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	return doc, ok, nil
}

var _ faqgen.DocumentRepository = (*MemoryRepository)(nil)
