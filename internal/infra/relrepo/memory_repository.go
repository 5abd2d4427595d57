package relrepo

import (
	"context"
	"sync"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

// MemoryRepository collects provenance edges in process.
type MemoryRepository struct {
	mu           sync.RWMutex
	documentFAQs []faqgen.DocumentFAQ
	messageFAQs  []faqgen.MessageFAQ
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) CreateDocumentFAQ(_ context.Context, edge faqgen.DocumentFAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documentFAQs = append(r.documentFAQs, edge)
	return nil
}

func (r *MemoryRepository) CreateMessageFAQ(_ context.Context, edge faqgen.MessageFAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messageFAQs = append(r.messageFAQs, edge)
	return nil
}

// DocumentFAQs returns a copy of the recorded document edges.
func (r *MemoryRepository) DocumentFAQs() []faqgen.DocumentFAQ {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]faqgen.DocumentFAQ, len(r.documentFAQs))
	copy(out, r.documentFAQs)
	return out
}

// MessageFAQs returns a copy of the recorded message edges.
func (r *MemoryRepository) MessageFAQs() []faqgen.MessageFAQ {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]faqgen.MessageFAQ, len(r.messageFAQs))
	copy(out, r.messageFAQs)
	return out
}

var _ faqgen.RelationshipRepository = (*MemoryRepository)(nil)
