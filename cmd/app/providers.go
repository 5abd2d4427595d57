package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
	"github.com/kbforge/faq-engine/internal/infra/config"
	"github.com/kbforge/faq-engine/internal/infra/docrepo"
	"github.com/kbforge/faq-engine/internal/infra/faqrepo"
	"github.com/kbforge/faq-engine/internal/infra/gateway"
	"github.com/kbforge/faq-engine/internal/infra/llm/chatgpt"
	"github.com/kbforge/faq-engine/internal/infra/queue"
	"github.com/kbforge/faq-engine/internal/infra/relrepo"
	"github.com/kbforge/faq-engine/internal/infra/vectorindex"
)

func provideLLMClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideEmbedder(cfg *config.Config, client *chatgpt.Client, logger *slog.Logger) faqgen.Embedder {
	return gateway.NewEmbedder(client, cfg.LLM.EmbeddingModel, cfg.Index.Dimension, logger)
}

func provideCompletions(cfg *config.Config, client *chatgpt.Client, logger *slog.Logger) faqgen.CompletionGateway {
	return gateway.NewCompletions(client, gateway.CompletionConfig{
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		MaxPromptTokens: cfg.LLM.MaxPromptTokens,
	}, logger)
}

func provideEngineConfig(cfg *config.Config) faqgen.Config {
	return faqgen.Config{
		ConfidenceThreshold:  cfg.Engine.ConfidenceThreshold,
		SimilarityThreshold:  cfg.Engine.SimilarityThreshold,
		EnhancementThreshold: cfg.Engine.EnhancementThreshold,
		MaxFAQsPerDocument:   cfg.Engine.MaxFAQsPerDocument,
		DuplicateTopK:        cfg.Engine.DuplicateTopK,
		MinSearchScore:       cfg.Engine.MinSearchScore,
		AlwaysCreate:         cfg.Engine.AlwaysCreate,
	}
}

func providePgxPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using in-memory storage")
		return nil, nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	return pgxpool.NewWithConfig(context.Background(), poolConfig)
}

func provideVectorIndex(cfg *config.Config, pool *pgxpool.Pool, embedder faqgen.Embedder, logger *slog.Logger) (faqgen.VectorIndex, error) {
	if pool == nil {
		return vectorindex.NewMemoryIndex(cfg.Index.Dimension, embedder, logger), nil
	}
	client, err := vectorindex.NewClient(pool, vectorindex.Config{
		Table:             cfg.Index.Table,
		Dimension:         cfg.Index.Dimension,
		Capacity:          cfg.Index.Capacity,
		ReadinessAttempts: cfg.Index.ReadinessAttempts,
		ReadinessInterval: cfg.Index.ReadinessInterval,
		Retry: vectorindex.RetryPolicy{
			MaxAttempts: cfg.Index.RetryAttempts,
			BaseDelay:   cfg.Index.RetryBaseDelay,
		},
	}, embedder, logger)
	if err != nil {
		return nil, err
	}
	// Safe on every cold start; fails fatally if the index never becomes ready.
	if err := client.EnsureIndexExists(context.Background()); err != nil {
		return nil, err
	}
	return client, nil
}

func provideFAQRepository(pool *pgxpool.Pool) faqgen.FAQRepository {
	if pool == nil {
		return faqrepo.NewMemoryRepository()
	}
	return faqrepo.NewPostgresRepository(pool)
}

func provideDocumentRepository(pool *pgxpool.Pool) faqgen.DocumentRepository {
	if pool == nil {
		return docrepo.NewMemoryRepository()
	}
	return docrepo.NewPostgresRepository(pool)
}

func provideRelationshipRepository(pool *pgxpool.Pool) faqgen.RelationshipRepository {
	if pool == nil {
		return relrepo.NewMemoryRepository()
	}
	return relrepo.NewPostgresRepository(pool)
}

func provideJobQueue(cfg *config.Config, engine faqgen.Service, logger *slog.Logger) (faqgen.JobQueue, error) {
	var hq queue.HandlerQueue
	if cfg.Queue.Enabled {
		client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{cfg.Queue.Addr}})
		if err != nil {
			return nil, err
		}
		hq = queue.NewValkeyQueue(client, cfg.Queue.Key, logger)
	} else {
		hq = queue.NewImmediateQueue(logger)
	}
	hq.SetHandler(queue.NewEngineDispatcher(engine, logger))
	return hq, nil
}
