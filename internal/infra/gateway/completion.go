package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
	"github.com/kbforge/faq-engine/internal/infra/llm/chatgpt"
	"github.com/kbforge/faq-engine/pkg/metrics"
)

const (
	defaultMaxPromptTokens = 6000
	promptEncoding         = "cl100k_base"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// CompletionConfig tunes the completion gateway.
type CompletionConfig struct {
	Model           string
	Temperature     float32
	MaxPromptTokens int
}

// Completions adapts the chat client to the engine's completion gateway
// contract: structured candidate generation and enhancement merges.
type Completions struct {
	client  chatClient
	cfg     CompletionConfig
	encoder *tiktoken.Tiktoken
	logger  *slog.Logger

	mu    sync.Mutex
	usage metrics.TokenUsage
}

// NewCompletions constructs the gateway. The tiktoken encoder is optional;
// when unavailable a rune-based estimate keeps the budget working.
func NewCompletions(client chatClient, cfg CompletionConfig, logger *slog.Logger) *Completions {
	if cfg.MaxPromptTokens <= 0 {
		cfg.MaxPromptTokens = defaultMaxPromptTokens
	}
	encoder, err := tiktoken.GetEncoding(promptEncoding)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, falling back to estimate", "encoding", promptEncoding, "error", err)
		encoder = nil
	}
	return &Completions{
		client:  client,
		cfg:     cfg,
		encoder: encoder,
		logger:  logger.With("component", "gateway.completions"),
	}
}

const candidateSystemPrompt = `You extract FAQ candidates from support conversations.
Respond with a JSON array only. Each element: {"question": string, "answer": string,
"category": string, "confidence": number between 0 and 1,
"sourceMessageIndices": array of message indices as strings}.`

// GenerateCandidates proposes QA pairs for a document's message history. The
// message context is capped by the prompt token budget, dropping the oldest
// messages first.
func (c *Completions) GenerateCandidates(ctx context.Context, req faqgen.CandidateRequest) ([]faqgen.Candidate, error) {
	prompt := c.buildCandidatePrompt(req)
	resp, err := c.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: candidateSystemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("candidate completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("candidate completion returned no choices")
	}
	candidates, err := parseCandidates(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	c.recordUsage(resp.Usage)
	c.logger.Debug("candidates generated",
		"count", len(candidates),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)
	return candidates, nil
}

func (c *Completions) recordUsage(u chatgpt.Usage) {
	delta := metrics.TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
	if delta.IsZero() {
		return
	}
	c.mu.Lock()
	c.usage = c.usage.Add(delta)
	c.mu.Unlock()
}

// Usage reports cumulative provider token consumption since construction.
func (c *Completions) Usage() metrics.TokenUsage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

const enhanceSystemPrompt = `You merge two versions of a FAQ entry into one improved entry.
Keep all factual content from both. Respond with a JSON object only:
{"enhancedQuestion": string, "enhancedAnswer": string, "confidence": number between 0 and 1}.`

// Enhance merges an existing FAQ with incoming near-duplicate content.
func (c *Completions) Enhance(ctx context.Context, existing, incoming faqgen.QA) (faqgen.EnhancedQA, error) {
	var b strings.Builder
	b.WriteString("Existing FAQ:\n")
	fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", existing.Question, existing.Answer)
	b.WriteString("New content to fold in:\n")
	fmt.Fprintf(&b, "Q: %s\nA: %s\n", incoming.Question, incoming.Answer)

	resp, err := c.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: enhanceSystemPrompt},
			{Role: "user", Content: b.String()},
		},
	})
	if err != nil {
		return faqgen.EnhancedQA{}, fmt.Errorf("enhancement completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return faqgen.EnhancedQA{}, errors.New("enhancement completion returned no choices")
	}
	c.recordUsage(resp.Usage)
	return parseEnhancedQA(resp.Choices[0].Message.Content)
}

func (c *Completions) buildCandidatePrompt(req faqgen.CandidateRequest) string {
	var header strings.Builder
	fmt.Fprintf(&header, "Title: %s\n", req.Title)
	if req.Description != "" {
		fmt.Fprintf(&header, "Description: %s\n", req.Description)
	}
	if req.Category != "" {
		fmt.Fprintf(&header, "Category: %s\n", req.Category)
	}
	header.WriteString("Messages (indexed):\n")

	budget := c.cfg.MaxPromptTokens - c.countTokens(header.String())
	lines := make([]string, len(req.Messages))
	for i, msg := range req.Messages {
		lines[i] = fmt.Sprintf("[%d] %s (%s): %s", i, msg.Username, msg.Role, msg.Text)
	}

	// Walk newest to oldest so the freshest context survives the budget, then
	// emit survivors in original order to keep indices meaningful.
	keepFrom := 0
	used := 0
	for i := len(lines) - 1; i >= 0; i-- {
		tokens := c.countTokens(lines[i])
		if used+tokens > budget {
			keepFrom = i + 1
			break
		}
		used += tokens
	}
	if keepFrom > 0 {
		c.logger.Debug("prompt budget trimmed message context", "dropped", keepFrom, "total", len(lines))
	}

	var b strings.Builder
	b.WriteString(header.String())
	for i := keepFrom; i < len(lines); i++ {
		b.WriteString(lines[i])
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Completions) countTokens(text string) int {
	if c.encoder != nil {
		return len(c.encoder.Encode(text, nil, nil))
	}
	// Rough upper-biased estimate: one token per two runes.
	return (len([]rune(text)) + 1) / 2
}

// candidateWire tolerates providers returning indices as numbers or strings.
type candidateWire struct {
	Question             string  `json:"question"`
	Answer               string  `json:"answer"`
	Category             string  `json:"category"`
	Confidence           float64 `json:"confidence"`
	SourceMessageIndices []any   `json:"sourceMessageIndices"`
}

func parseCandidates(content string) ([]faqgen.Candidate, error) {
	payload := extractJSON(content)
	var wire []candidateWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, fmt.Errorf("parse candidate response: %w", err)
	}
	candidates := make([]faqgen.Candidate, 0, len(wire))
	for _, w := range wire {
		if strings.TrimSpace(w.Question) == "" || strings.TrimSpace(w.Answer) == "" {
			continue
		}
		candidates = append(candidates, faqgen.Candidate{
			Question:             strings.TrimSpace(w.Question),
			Answer:               strings.TrimSpace(w.Answer),
			Category:             strings.TrimSpace(w.Category),
			Confidence:           w.Confidence,
			SourceMessageIndices: stringifyIndices(w.SourceMessageIndices),
		})
	}
	return candidates, nil
}

func stringifyIndices(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case float64:
			out = append(out, fmt.Sprintf("%d", int(t)))
		}
	}
	return out
}

type enhancedWire struct {
	EnhancedQuestion string  `json:"enhancedQuestion"`
	EnhancedAnswer   string  `json:"enhancedAnswer"`
	Confidence       float64 `json:"confidence"`
}

func parseEnhancedQA(content string) (faqgen.EnhancedQA, error) {
	payload := extractJSON(content)
	var wire enhancedWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return faqgen.EnhancedQA{}, fmt.Errorf("parse enhancement response: %w", err)
	}
	if strings.TrimSpace(wire.EnhancedQuestion) == "" || strings.TrimSpace(wire.EnhancedAnswer) == "" {
		return faqgen.EnhancedQA{}, errors.New("enhancement response missing question or answer")
	}
	return faqgen.EnhancedQA{
		Question:   strings.TrimSpace(wire.EnhancedQuestion),
		Answer:     strings.TrimSpace(wire.EnhancedAnswer),
		Confidence: wire.Confidence,
	}, nil
}

var _ faqgen.CompletionGateway = (*Completions)(nil)
