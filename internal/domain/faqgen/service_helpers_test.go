package faqgen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	fallback []float32
	err     error
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	if f.fallback != nil {
		return f.fallback, nil
	}
	return []float32{1, 0, 0}, nil
}

type fakeIndex struct {
	matches     []IndexMatch
	queryErr    error
	storeErr    error
	stored      map[string][]float32
	storedMeta  map[string]IndexMetadata
	deleted     []string
	metaUpdates map[string]IndexMetadata
	queries     int
	lastTopK    int
	lastFilter  Filter
	statsErr    error
	stats       IndexStats
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		stored:      make(map[string][]float32),
		storedMeta:  make(map[string]IndexMetadata),
		metaUpdates: make(map[string]IndexMetadata),
	}
}

func (f *fakeIndex) StoreEmbedding(_ context.Context, id string, vector []float32, meta IndexMetadata) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.stored[id] = vector
	f.storedMeta[id] = meta
	return nil
}

func (f *fakeIndex) StoreEmbeddingsBatch(ctx context.Context, items []BatchItem) (int, error) {
	return len(items), nil
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, topK int, filter Filter) ([]IndexMatch, error) {
	f.queries++
	f.lastTopK = topK
	f.lastFilter = filter
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.matches, nil
}

func (f *fakeIndex) UpdateMetadata(_ context.Context, id string, meta IndexMetadata) error {
	f.metaUpdates[id] = meta
	return nil
}

func (f *fakeIndex) DeleteEmbedding(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.stored, id)
	return nil
}

func (f *fakeIndex) DeleteEmbeddingsBatch(ctx context.Context, ids []string) error {
	for _, id := range ids {
		_ = f.DeleteEmbedding(ctx, id)
	}
	return nil
}

func (f *fakeIndex) EnsureIndexExists(context.Context) error { return nil }

func (f *fakeIndex) Stats(context.Context) (IndexStats, error) {
	if f.statsErr != nil {
		return IndexStats{}, f.statsErr
	}
	return f.stats, nil
}

type fakeFAQRepo struct {
	faqs      map[string]FAQ
	createErr error
	updateErr error
	creates   int
	updates   int
	deletes   []string
}

func newFakeFAQRepo() *fakeFAQRepo {
	return &fakeFAQRepo{faqs: make(map[string]FAQ)}
}

func (f *fakeFAQRepo) Create(_ context.Context, faq FAQ) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.creates++
	f.faqs[faq.ID] = faq
	return nil
}

func (f *fakeFAQRepo) Get(_ context.Context, id string) (FAQ, bool, error) {
	faq, ok := f.faqs[id]
	return faq, ok, nil
}

func (f *fakeFAQRepo) Update(_ context.Context, faq FAQ) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	f.faqs[faq.ID] = faq
	return nil
}

func (f *fakeFAQRepo) Delete(_ context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	delete(f.faqs, id)
	return nil
}

type fakeDocRepo struct {
	docs map[string]Document
}

func newFakeDocRepo(docs ...Document) *fakeDocRepo {
	repo := &fakeDocRepo{docs: make(map[string]Document)}
	for _, d := range docs {
		repo.docs[d.ID] = d
	}
	return repo
}

func (f *fakeDocRepo) Get(_ context.Context, id string) (Document, bool, error) {
	doc, ok := f.docs[id]
	return doc, ok, nil
}

type fakeRelRepo struct {
	documentFAQs []DocumentFAQ
	messageFAQs  []MessageFAQ
	docErr       error
	msgErr       error
}

func (f *fakeRelRepo) CreateDocumentFAQ(_ context.Context, edge DocumentFAQ) error {
	if f.docErr != nil {
		return f.docErr
	}
	f.documentFAQs = append(f.documentFAQs, edge)
	return nil
}

func (f *fakeRelRepo) CreateMessageFAQ(_ context.Context, edge MessageFAQ) error {
	if f.msgErr != nil {
		return f.msgErr
	}
	f.messageFAQs = append(f.messageFAQs, edge)
	return nil
}

type fakeCompletions struct {
	candidates   []Candidate
	candidateErr error
	enhanced     EnhancedQA
	enhanceErr   error
	enhanceCalls int
}

func (f *fakeCompletions) GenerateCandidates(context.Context, CandidateRequest) ([]Candidate, error) {
	if f.candidateErr != nil {
		return nil, f.candidateErr
	}
	return f.candidates, nil
}

func (f *fakeCompletions) Enhance(context.Context, QA, QA) (EnhancedQA, error) {
	f.enhanceCalls++
	if f.enhanceErr != nil {
		return EnhancedQA{}, f.enhanceErr
	}
	return f.enhanced, nil
}

type engineDeps struct {
	faqs        *fakeFAQRepo
	docs        *fakeDocRepo
	rels        *fakeRelRepo
	index       *fakeIndex
	embedder    *fakeEmbedder
	completions *fakeCompletions
}

func newTestEngine(deps engineDeps) (*engine, engineDeps) {
	if deps.faqs == nil {
		deps.faqs = newFakeFAQRepo()
	}
	if deps.docs == nil {
		deps.docs = newFakeDocRepo()
	}
	if deps.rels == nil {
		deps.rels = &fakeRelRepo{}
	}
	if deps.index == nil {
		deps.index = newFakeIndex()
	}
	if deps.embedder == nil {
		deps.embedder = &fakeEmbedder{}
	}
	if deps.completions == nil {
		deps.completions = &fakeCompletions{}
	}
	e := &engine{
		cfg:         Config{}.withDefaults(),
		faqs:        deps.faqs,
		docs:        deps.docs,
		rels:        deps.rels,
		index:       deps.index,
		embedder:    deps.embedder,
		completions: deps.completions,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         fixedTime,
	}
	return e, deps
}

var errBoom = errors.New("boom")

func fixedTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}
