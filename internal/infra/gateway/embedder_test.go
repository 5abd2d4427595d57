package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/kbforge/faq-engine/internal/infra/llm/chatgpt"
)

type fakeEmbeddingClient struct {
	vectors   [][]float32
	err       error
	lastInput any
}

func (f *fakeEmbeddingClient) CreateEmbedding(_ context.Context, req chatgpt.EmbeddingRequest) (chatgpt.EmbeddingResponse, error) {
	f.lastInput = req.Input
	if f.err != nil {
		return chatgpt.EmbeddingResponse{}, f.err
	}
	resp := chatgpt.EmbeddingResponse{}
	for _, v := range f.vectors {
		resp.Data = append(resp.Data, chatgpt.EmbeddingData{Embedding: v})
	}
	return resp, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmbedderEmbed(t *testing.T) {
	client := &fakeEmbeddingClient{vectors: [][]float32{{0.1, 0.2, 0.3}}}
	e := NewEmbedder(client, "text-embedding-3-small", 3, testLogger())

	got, err := e.Embed(context.Background(), "  how do I reset my password  ")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(got) != 3 || got[0] != 0.1 {
		t.Fatalf("vector = %v", got)
	}
	if client.lastInput != "how do I reset my password" {
		t.Errorf("input = %v, want trimmed text", client.lastInput)
	}
}

func TestEmbedderRejectsEmptyInput(t *testing.T) {
	e := NewEmbedder(&fakeEmbeddingClient{}, "m", 3, testLogger())
	if _, err := e.Embed(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank input")
	}
}

func TestEmbedderDimensionMismatch(t *testing.T) {
	client := &fakeEmbeddingClient{vectors: [][]float32{{0.1, 0.2}}}
	e := NewEmbedder(client, "m", 3, testLogger())
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestEmbedderEmptyResponse(t *testing.T) {
	e := NewEmbedder(&fakeEmbeddingClient{}, "m", 3, testLogger())
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error for empty response")
	}
	e = NewEmbedder(&fakeEmbeddingClient{err: errors.New("down")}, "m", 3, testLogger())
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected client error to propagate")
	}
}

func TestDeterministicEmbedder(t *testing.T) {
	e := NewDeterministicEmbedder(16)

	a1, err := e.Embed(context.Background(), "same text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	a2, _ := e.Embed(context.Background(), "same text")
	b, _ := e.Embed(context.Background(), "different text")

	if len(a1) != 16 {
		t.Fatalf("dimension = %d, want 16", len(a1))
	}
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatal("same input produced different vectors")
		}
	}
	same := true
	for i := range a1 {
		if a1[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different inputs produced the same vector")
	}

	var norm float64
	for _, v := range a1 {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("norm = %f, want unit vector", norm)
	}
}
