package faqgen

// Default thresholds mirror the tuned production values.
const (
	DefaultConfidenceThreshold  = 0.8
	DefaultSimilarityThreshold  = 0.85
	DefaultEnhancementThreshold = 0.9
	DefaultMaxFAQsPerDocument   = 20
	DefaultDuplicateTopK        = 10
	DefaultMinSearchScore       = 0.5
)

// Config holds runtime knobs for the engine.
type Config struct {
	// ConfidenceThreshold rejects candidates below it before any index work.
	ConfidenceThreshold float64
	// SimilarityThreshold is the minimum score for a match to count as a
	// duplicate at all.
	SimilarityThreshold float64
	// EnhancementThreshold is the minimum score for a duplicate to be merged
	// into rather than merely flagged.
	EnhancementThreshold float64
	// MaxFAQsPerDocument caps accepted candidates per document.
	MaxFAQsPerDocument int
	// DuplicateTopK is the index fan-out for duplicate checks.
	DuplicateTopK int
	// MinSearchScore is the default floor for browse searches.
	MinSearchScore float64
	// AlwaysCreate bypasses duplicate detection entirely. Fallback mode for
	// index outages, not the default.
	AlwaysCreate bool
}

func (c Config) withDefaults() Config {
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.EnhancementThreshold <= 0 {
		c.EnhancementThreshold = DefaultEnhancementThreshold
	}
	if c.MaxFAQsPerDocument <= 0 {
		c.MaxFAQsPerDocument = DefaultMaxFAQsPerDocument
	}
	if c.DuplicateTopK <= 0 {
		c.DuplicateTopK = DefaultDuplicateTopK
	}
	if c.MinSearchScore <= 0 {
		c.MinSearchScore = DefaultMinSearchScore
	}
	return c
}
