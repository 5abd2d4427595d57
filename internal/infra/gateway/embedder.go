package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
	"github.com/kbforge/faq-engine/internal/infra/llm/chatgpt"
)

type embeddingClient interface {
	CreateEmbedding(ctx context.Context, req chatgpt.EmbeddingRequest) (chatgpt.EmbeddingResponse, error)
}

// Embedder calls an OpenAI-compatible embeddings API and enforces the index
// dimension on every returned vector.
type Embedder struct {
	client    embeddingClient
	model     string
	dimension int
	logger    *slog.Logger
}

// NewEmbedder constructs the embedding gateway.
func NewEmbedder(client embeddingClient, model string, dimension int, logger *slog.Logger) *Embedder {
	if dimension <= 0 {
		dimension = 768
	}
	return &Embedder{
		client:    client,
		model:     strings.TrimSpace(model),
		dimension: dimension,
		logger:    logger.With("component", "gateway.embedder"),
	}
}

// Embed returns the vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return nil, errors.New("embedding input cannot be empty")
	}
	resp, err := e.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: e.model,
		Input: input,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding response empty")
	}
	raw := resp.Data[0].Embedding
	if len(raw) != e.dimension {
		return nil, fmt.Errorf("embedding dimension %d does not match configured %d", len(raw), e.dimension)
	}
	vector := make([]float32, len(raw))
	copy(vector, raw)
	return vector, nil
}

var _ faqgen.Embedder = (*Embedder)(nil)
