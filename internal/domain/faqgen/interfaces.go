package faqgen

import "context"

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CompletionGateway wraps the text-completion provider.
type CompletionGateway interface {
	GenerateCandidates(ctx context.Context, req CandidateRequest) ([]Candidate, error)
	Enhance(ctx context.Context, existing, incoming QA) (EnhancedQA, error)
}

// VectorIndex is the durable similarity-search index keyed by FAQ id.
// Implementations retry transient failures internally; errors returned here
// are already exhausted.
type VectorIndex interface {
	StoreEmbedding(ctx context.Context, id string, vector []float32, meta IndexMetadata) error
	StoreEmbeddingsBatch(ctx context.Context, items []BatchItem) (int, error)
	Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]IndexMatch, error)
	UpdateMetadata(ctx context.Context, id string, meta IndexMetadata) error
	DeleteEmbedding(ctx context.Context, id string) error
	DeleteEmbeddingsBatch(ctx context.Context, ids []string) error
	EnsureIndexExists(ctx context.Context) error
	Stats(ctx context.Context) (IndexStats, error)
}

// FAQRepository persists FAQ records.
type FAQRepository interface {
	Create(ctx context.Context, f FAQ) error
	Get(ctx context.Context, id string) (FAQ, bool, error)
	Update(ctx context.Context, f FAQ) error
	Delete(ctx context.Context, id string) error
}

// DocumentRepository reads curated documents and their ordered messages.
type DocumentRepository interface {
	Get(ctx context.Context, id string) (Document, bool, error)
}

// RelationshipRepository persists provenance edges.
type RelationshipRepository interface {
	CreateDocumentFAQ(ctx context.Context, edge DocumentFAQ) error
	CreateMessageFAQ(ctx context.Context, edge MessageFAQ) error
}

// JobQueue enqueues processing tasks for asynchronous execution.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload map[string]any) error
}
