package faqgen

import "time"

// FAQStatus tracks the review lifecycle of a FAQ.
type FAQStatus string

const (
	StatusPending  FAQStatus = "PENDING"
	StatusApproved FAQStatus = "APPROVED"
	StatusRejected FAQStatus = "REJECTED"
	StatusArchived FAQStatus = "ARCHIVED"
)

// FAQ is the persisted question/answer record owned by the engine.
type FAQ struct {
	ID              string     `json:"id"`
	Question        string     `json:"question"`
	Answer          string     `json:"answer"`
	Category        string     `json:"category"`
	Status          FAQStatus  `json:"status"`
	ConfidenceScore float64    `json:"confidenceScore"`
	ApprovedBy      *string    `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// MessageRole is computed upstream during ingestion.
type MessageRole string

const (
	RoleQuestion MessageRole = "QUESTION"
	RoleAnswer   MessageRole = "ANSWER"
	RoleContext  MessageRole = "CONTEXT"
)

// Message is one entry of a document's ordered message list.
type Message struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Username  string      `json:"username"`
	Role      MessageRole `json:"role"`
	Timestamp time.Time   `json:"timestamp"`
}

// Document is a curated bundle of source messages.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Messages    []Message `json:"messages"`
}

// Candidate is an unpersisted QA pair proposed by the completion gateway.
// SourceMessageIndices are indices into the document's ordered message list,
// carried as strings because that is how the provider returns them.
type Candidate struct {
	Question             string   `json:"question"`
	Answer               string   `json:"answer"`
	Category             string   `json:"category"`
	Confidence           float64  `json:"confidence"`
	SourceMessageIndices []string `json:"sourceMessageIndices"`
}

// IndexMetadata is the point-in-time snapshot stored next to a vector.
// It is a copy for filtering and display, not a live join.
type IndexMetadata struct {
	Category       string    `json:"category"`
	Status         FAQStatus `json:"status"`
	QuestionPrefix string    `json:"questionPrefix"`
}

// IndexMatch is one ranked result from the vector index.
type IndexMatch struct {
	ID       string        `json:"id"`
	Score    float64       `json:"score"`
	Metadata IndexMetadata `json:"metadata"`
}

// DuplicateCheckResult reports threshold-filtered matches, score-descending.
type DuplicateCheckResult struct {
	IsDuplicate bool
	Matches     []IndexMatch
}

// IndexStats summarizes index health.
type IndexStats struct {
	VectorCount int64   `json:"vectorCount"`
	Dimension   int     `json:"dimension"`
	Fullness    float64 `json:"fullness"`
}

// BatchItem is one entry of a batched store request. The index client embeds
// the text itself so a single failed embedding drops only its item.
type BatchItem struct {
	ID       string
	Text     string
	Metadata IndexMetadata
}

// Filter restricts index queries by equality/in predicates on metadata.
type Filter struct {
	Category *string
	StatusIn []FAQStatus
}

// GenerationMethod records how a DocumentFAQ edge came to be.
type GenerationMethod string

const (
	MethodAIGenerated GenerationMethod = "AI_GENERATED"
	MethodUserCreated GenerationMethod = "USER_CREATED"
	MethodHybrid      GenerationMethod = "HYBRID"
)

// ContributionType describes a message's role in producing a FAQ.
type ContributionType string

const (
	ContributionPrimaryQuestion   ContributionType = "PRIMARY_QUESTION"
	ContributionPrimaryAnswer     ContributionType = "PRIMARY_ANSWER"
	ContributionSupportingContext ContributionType = "SUPPORTING_CONTEXT"
)

// DocumentFAQ is a provenance edge from a document to a FAQ.
type DocumentFAQ struct {
	DocumentID       string           `json:"documentId"`
	FAQID            string           `json:"faqId"`
	GenerationMethod GenerationMethod `json:"generationMethod"`
	SourceMessageIDs []string         `json:"sourceMessageIds"`
	ConfidenceScore  float64          `json:"confidenceScore"`
	GeneratedBy      string           `json:"generatedBy"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// MessageFAQ is a provenance edge from a single message to a FAQ.
type MessageFAQ struct {
	MessageID        string           `json:"messageId"`
	FAQID            string           `json:"faqId"`
	ContributionType ContributionType `json:"contributionType"`
	DocumentID       *string          `json:"documentId,omitempty"`
}

// GenerateOptions tunes a document-processing run.
type GenerateOptions struct {
	CategoryOverride string `json:"category,omitempty"`
	UserID           string `json:"userId,omitempty"`
}

// DocumentResult summarizes one document-processing run.
type DocumentResult struct {
	DocumentID       string `json:"documentId"`
	FAQs             []FAQ  `json:"faqs"`
	DuplicatesFound  int    `json:"duplicatesFound"`
	EnhancedExisting int    `json:"enhancedExisting"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

// BatchFailure records a document that could not be processed.
type BatchFailure struct {
	DocumentID string `json:"documentId"`
	Error      string `json:"error"`
}

// BatchResult aggregates a multi-document run.
type BatchResult struct {
	Results         []DocumentResult `json:"results"`
	TotalFAQs       int              `json:"totalFaqs"`
	TotalDuplicates int              `json:"totalDuplicates"`
	Failures        []BatchFailure   `json:"failures,omitempty"`
}

// NewContent carries the material folded into an existing FAQ.
type NewContent struct {
	Question         string `json:"question"`
	Answer           string `json:"answer"`
	SourceDocumentID string `json:"sourceDocumentId,omitempty"`
}

// QA is a bare question/answer pair exchanged with the completion gateway.
type QA struct {
	Question string
	Answer   string
}

// EnhancedQA is the gateway's merge result.
type EnhancedQA struct {
	Question   string
	Answer     string
	Confidence float64
}

// CandidateRequest is the input to candidate generation.
type CandidateRequest struct {
	Title       string
	Description string
	Category    string
	Messages    []Message
}

// SearchOptions drives the browse-oriented similarity search. It is not
// gated by the duplicate thresholds.
type SearchOptions struct {
	Category string      `json:"category,omitempty"`
	StatusIn []FAQStatus `json:"status,omitempty"`
	TopK     int         `json:"topK,omitempty"`
	MinScore float64     `json:"minScore,omitempty"`
}

// SimilarFAQ pairs a FAQ with its similarity to the query.
type SimilarFAQ struct {
	FAQ        FAQ           `json:"faq"`
	Similarity float64       `json:"similarity"`
	Metadata   IndexMetadata `json:"metadata"`
}

// HealthStatus is returned by HealthCheck instead of an error so callers can
// degrade gracefully.
type HealthStatus struct {
	IsHealthy bool        `json:"isHealthy"`
	Stats     *IndexStats `json:"stats,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// MetadataFor builds the index snapshot for a FAQ.
func MetadataFor(f FAQ) IndexMetadata {
	return IndexMetadata{
		Category:       f.Category,
		Status:         f.Status,
		QuestionPrefix: questionPrefix(f.Question),
	}
}

const questionPrefixLen = 100

func questionPrefix(question string) string {
	runes := []rune(question)
	if len(runes) <= questionPrefixLen {
		return question
	}
	return string(runes[:questionPrefixLen])
}
