package vectorindex

import (
	"fmt"
	"strings"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

// renderFilter turns the typed filter into SQL predicates. Placeholders start
// after the ones already consumed by the caller.
func renderFilter(f faqgen.Filter, nextPlaceholder int) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Category != nil {
		clauses = append(clauses, fmt.Sprintf("category = $%d", nextPlaceholder))
		args = append(args, *f.Category)
		nextPlaceholder++
	}
	if len(f.StatusIn) > 0 {
		placeholders := make([]string, len(f.StatusIn))
		for i, status := range f.StatusIn {
			placeholders[i] = fmt.Sprintf("$%d", nextPlaceholder)
			args = append(args, string(status))
			nextPlaceholder++
		}
		clauses = append(clauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

// matchesFilter is the in-memory counterpart of renderFilter.
func matchesFilter(meta faqgen.IndexMetadata, f faqgen.Filter) bool {
	if f.Category != nil && meta.Category != *f.Category {
		return false
	}
	if len(f.StatusIn) > 0 {
		ok := false
		for _, status := range f.StatusIn {
			if meta.Status == status {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
