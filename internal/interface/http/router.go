package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbforge/faq-engine/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(),
	)

	api := router.Group("/api/v1")
	{
		api.POST("/documents/:id/faqs", handler.GenerateFromDocument)
		api.POST("/faqs/batch-generate", handler.GenerateBatch)
		api.POST("/jobs/documents/:id/faqs", handler.EnqueueGenerate)
		api.POST("/faqs/:id/enhance", handler.Enhance)
		api.POST("/faqs/:id/review", handler.Review)
		api.GET("/faqs/similar", handler.Similar)
		api.GET("/health", handler.Health)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
