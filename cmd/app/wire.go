//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/kbforge/faq-engine/internal/bootstrap"
	"github.com/kbforge/faq-engine/internal/domain/faqgen"
	"github.com/kbforge/faq-engine/internal/infra/config"
	httpiface "github.com/kbforge/faq-engine/internal/interface/http"
	"github.com/kbforge/faq-engine/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideLLMClient,
		provideEmbedder,
		provideCompletions,
		provideEngineConfig,
		providePgxPool,
		provideVectorIndex,
		provideFAQRepository,
		provideDocumentRepository,
		provideRelationshipRepository,
		faqgen.NewEngine,
		provideJobQueue,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
