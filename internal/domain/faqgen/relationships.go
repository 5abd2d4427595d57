package faqgen

import (
	"context"
	"strconv"
)

// trackRelationships builds provenance edges for every created or enhanced
// FAQ of one document-processing run. Provenance is supplementary: failures
// are logged and swallowed, never rolled back into the FAQ itself.
func (e *engine) trackRelationships(ctx context.Context, doc Document, userID string, outcomes []candidateOutcome) {
	for _, outcome := range outcomes {
		messageIDs, resolved := resolveMessageIDs(doc, outcome.candidate.SourceMessageIndices)

		// Enhanced FAQs already received their HYBRID document edge from the
		// merger; only freshly created ones get an AI_GENERATED edge here.
		if outcome.state == stateCreated {
			edge := DocumentFAQ{
				DocumentID:       doc.ID,
				FAQID:            outcome.faq.ID,
				GenerationMethod: MethodAIGenerated,
				SourceMessageIDs: messageIDs,
				ConfidenceScore:  outcome.faq.ConfidenceScore,
				GeneratedBy:      userID,
				CreatedAt:        e.now(),
			}
			if err := e.rels.CreateDocumentFAQ(ctx, edge); err != nil {
				e.logger.Warn("document provenance edge failed", "faq_id", outcome.faq.ID, "error", err)
			}
		}

		for pos, r := range resolved {
			if r.messageID == "" {
				continue
			}
			docID := doc.ID
			edge := MessageFAQ{
				MessageID:        r.messageID,
				FAQID:            outcome.faq.ID,
				ContributionType: contributionFor(r.index, pos),
				DocumentID:       &docID,
			}
			if err := e.rels.CreateMessageFAQ(ctx, edge); err != nil {
				e.logger.Warn("message provenance edge failed", "faq_id", outcome.faq.ID, "message_id", r.messageID, "error", err)
			}
		}
	}
}

type resolvedIndex struct {
	index     int
	messageID string
}

// resolveMessageIDs maps candidate message indices onto real message ids.
// Unresolved indices pass through as raw strings in the returned id list; a
// defensive fallback, not an error.
func resolveMessageIDs(doc Document, indices []string) ([]string, []resolvedIndex) {
	ids := make([]string, 0, len(indices))
	resolved := make([]resolvedIndex, 0, len(indices))
	for _, raw := range indices {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n >= len(doc.Messages) {
			ids = append(ids, raw)
			resolved = append(resolved, resolvedIndex{index: -1})
			continue
		}
		ids = append(ids, doc.Messages[n].ID)
		resolved = append(resolved, resolvedIndex{index: n, messageID: doc.Messages[n].ID})
	}
	return ids, resolved
}

// contributionFor keeps the positional heuristic: the first message (by index
// or by position in the candidate's source list) carries the question, the
// second the answer, the rest are context.
// TODO: derive contribution type from Message.Role, which ingestion already
// computes, instead of list position.
func contributionFor(messageIndex, listPos int) ContributionType {
	switch {
	case messageIndex == 0 || listPos == 0:
		return ContributionPrimaryQuestion
	case messageIndex == 1 || listPos == 1:
		return ContributionPrimaryAnswer
	default:
		return ContributionSupportingContext
	}
}
