package faqrepo

import (
	"context"
	"sync"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

// MemoryRepository keeps FAQ records in process, for tests and DSN-less dev.
type MemoryRepository struct {
	mu   sync.RWMutex
	faqs map[string]faqgen.FAQ
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{faqs: make(map[string]faqgen.FAQ)}
}

func (r *MemoryRepository) Create(_ context.Context, f faqgen.FAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faqs[f.ID] = f
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (faqgen.FAQ, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.faqs[id]
	return f, ok, nil
}

func (r *MemoryRepository) Update(_ context.Context, f faqgen.FAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faqs[f.ID] = f
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.faqs, id)
	return nil
}

var _ faqgen.FAQRepository = (*MemoryRepository)(nil)
