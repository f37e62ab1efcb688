package filter

import (
	"strings"

	"github.com/alexanderramin/polymath/internal/domain"
)

// DefaultSuggestLimit caps autocomplete results.
const DefaultSuggestLimit = 10

// Suggest completes the last comma-separated term of input against subject
// ids and names, e.g. "algebra-1, calc" suggests calculus subjects.
func Suggest(refs []domain.SubjectRef, input string, limit int) []domain.SubjectRef {
	term := input
	if i := strings.LastIndex(input, ","); i >= 0 {
		term = input[i+1:]
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	var out []domain.SubjectRef
	for _, r := range refs {
		if strings.Contains(strings.ToLower(r.ID), term) || strings.Contains(strings.ToLower(r.Name), term) {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
