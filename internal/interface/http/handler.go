package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
	"github.com/kbforge/faq-engine/internal/infra/queue"
	apperrors "github.com/kbforge/faq-engine/pkg/errors"
)

// Handler wires the HTTP transport to the FAQ engine.
type Handler struct {
	engine faqgen.Service
	jobs   faqgen.JobQueue
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(engine faqgen.Service, jobs faqgen.JobQueue, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		jobs:   jobs,
		logger: logger.With("component", "http.handler"),
	}
}

type generateRequest struct {
	Category string `json:"category"`
	UserID   string `json:"userId"`
}

// GenerateFromDocument runs the pipeline for one document synchronously.
func (h *Handler) GenerateFromDocument(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}

	result, err := h.engine.GenerateFAQsFromDocument(c.Request.Context(), c.Param("id"), faqgen.GenerateOptions{
		CategoryOverride: req.Category,
		UserID:           req.UserID,
	})
	if err != nil {
		abortWithError(c, engineError(err, "generate_failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// EnqueueGenerate schedules document processing on the job queue.
func (h *Handler) EnqueueGenerate(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}

	payload := map[string]any{"documentId": c.Param("id")}
	if req.Category != "" {
		payload["category"] = req.Category
	}
	if req.UserID != "" {
		payload["userId"] = req.UserID
	}
	if err := h.jobs.Enqueue(c.Request.Context(), queue.JobGenerateDocument, payload); err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "enqueue_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}

type batchRequest struct {
	DocumentIDs []string `json:"documentIds" binding:"required"`
	Category    string   `json:"category"`
	UserID      string   `json:"userId"`
}

// GenerateBatch processes several documents in one call.
func (h *Handler) GenerateBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	result, err := h.engine.GenerateFAQsFromMultipleDocuments(c.Request.Context(), req.DocumentIDs, faqgen.GenerateOptions{
		CategoryOverride: req.Category,
		UserID:           req.UserID,
	})
	if err != nil {
		abortWithError(c, engineError(err, "generate_failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

type enhanceRequest struct {
	Question         string `json:"question" binding:"required"`
	Answer           string `json:"answer" binding:"required"`
	SourceDocumentID string `json:"sourceDocumentId"`
	UserID           string `json:"userId"`
}

// Enhance folds new content into an existing FAQ.
func (h *Handler) Enhance(c *gin.Context) {
	var req enhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	faq, err := h.engine.EnhanceFAQ(c.Request.Context(), c.Param("id"), faqgen.NewContent{
		Question:         req.Question,
		Answer:           req.Answer,
		SourceDocumentID: req.SourceDocumentID,
	}, req.UserID)
	if err != nil {
		abortWithError(c, engineError(err, "enhance_failed"))
		return
	}
	c.JSON(http.StatusOK, faq)
}

type reviewRequest struct {
	Status     faqgen.FAQStatus `json:"status" binding:"required"`
	ReviewedBy string           `json:"reviewedBy" binding:"required"`
	Feedback   string           `json:"feedback"`
}

// Review applies an approve/reject decision.
func (h *Handler) Review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	faq, err := h.engine.ReviewFAQ(c.Request.Context(), c.Param("id"), req.Status, req.ReviewedBy, req.Feedback)
	if err != nil {
		abortWithError(c, engineError(err, "review_failed"))
		return
	}
	c.JSON(http.StatusOK, faq)
}

// Similar serves the browse-oriented similarity search.
func (h *Handler) Similar(c *gin.Context) {
	query := c.Query("q")
	var opts faqgen.SearchOptions
	opts.Category = c.Query("category")
	for _, status := range c.QueryArray("status") {
		opts.StatusIn = append(opts.StatusIn, faqgen.FAQStatus(status))
	}
	if err := bindFloat(c, "minScore", &opts.MinScore); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	if err := bindInt(c, "topK", &opts.TopK); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}

	results, err := h.engine.FindSimilarFAQs(c.Request.Context(), query, opts)
	if err != nil {
		abortWithError(c, engineError(err, "search_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Health reports index health without failing the request.
func (h *Handler) Health(c *gin.Context) {
	status := h.engine.HealthCheck(c.Request.Context())
	code := http.StatusOK
	if !status.IsHealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func engineError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	switch apperrors.Code(err) {
	case "not_found":
		status = http.StatusNotFound
	case "invalid_input":
		status = http.StatusBadRequest
	case "index_error":
		status = http.StatusBadGateway
	}
	return NewHTTPError(status, fallbackCode, errMessage(err), err)
}
