package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/polymath/internal/domain"
)

func resolveSubjectID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("subject ID is required")
	}
	refs := app.Subjects.Refs(ctx)

	// 1. Exact ID match
	for _, r := range refs {
		if r.ID == input {
			return r.ID, nil
		}
	}

	// 2. Name or slug match (case-insensitive)
	slug := domain.Slugify(input)
	for _, r := range refs {
		if strings.EqualFold(r.Name, input) || r.ID == slug {
			return r.ID, nil
		}
	}

	// 3. ID prefix match
	var matches []string
	for _, r := range refs {
		if strings.HasPrefix(r.ID, input) {
			matches = append(matches, r.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", domain.ErrSubjectNotFound, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("subject ID prefix %q is ambiguous (%d matches: %s)",
			input, len(matches), strings.Join(matches, ", "))
	}
}

// resolveByPrefix matches a full ID or a unique prefix among ids.
func resolveByPrefix(kind, input string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

// resolveProjectID finds a project on subjectID by ID prefix or name.
func resolveProjectID(ctx context.Context, app *App, subjectID, input string) (*domain.Project, error) {
	detail, err := app.Subjects.Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(detail.Subject.Projects))
	for i, p := range detail.Subject.Projects {
		if strings.EqualFold(p.Name, input) {
			return &detail.Subject.Projects[i], nil
		}
		ids[i] = p.ID
	}
	id, err := resolveByPrefix("project", input, ids)
	if err != nil {
		return nil, err
	}
	for i := range detail.Subject.Projects {
		if detail.Subject.Projects[i].ID == id {
			return &detail.Subject.Projects[i], nil
		}
	}
	return nil, domain.ErrProjectNotFound
}

func resourceIDs(list []domain.Resource) []string {
	ids := make([]string, len(list))
	for i, r := range list {
		ids[i] = r.ID
	}
	return ids
}
