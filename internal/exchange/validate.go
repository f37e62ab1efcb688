package exchange

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/polymath/internal/domain"
)

// Validate performs the semantic checks the JSON schema cannot express.
// It also guards documents built in memory rather than decoded.
func Validate(doc *Document) []Problem {
	var problems []Problem

	if doc.SchemaTag() == "" {
		problems = append(problems, Problem{Path: "schema", Message: "missing schema/version"})
	}
	if doc.Progress == nil {
		problems = append(problems, Problem{Path: "progress", Message: "missing progress data"})
	}
	for _, id := range sortedKeys(doc.Progress) {
		if !doc.Progress[id].Valid() {
			problems = append(problems, Problem{
				Path:    "progress." + id,
				Message: fmt.Sprintf("invalid progress value %q", doc.Progress[id]),
			})
		}
	}

	for _, id := range sortedKeys(doc.CustomSubjects) {
		cs := doc.CustomSubjects[id]
		prefix := "customSubjects." + id
		if id == "" || id != domain.Slugify(id) {
			problems = append(problems, Problem{Path: prefix, Message: fmt.Sprintf("id %q is not in slug form", id)})
		}
		if cs.Name == "" {
			problems = append(problems, Problem{Path: prefix + ".name", Message: "name is required"})
		}
		if cs.Tier == "" {
			problems = append(problems, Problem{Path: prefix + ".tier", Message: "tier is required"})
		}
		if _, clash := doc.Overlays[id]; clash {
			problems = append(problems, Problem{Path: prefix, Message: "subject is both custom and an overlay"})
		}
	}

	return problems
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
