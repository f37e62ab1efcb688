package catalog

import (
	"fmt"

	"github.com/alexanderramin/polymath/internal/domain"
)

// Validate checks the catalog for errors before conversion.
// Returns a slice of all validation errors found.
func Validate(doc *Document) []error {
	var errs []error

	if len(doc.Tiers) == 0 {
		errs = append(errs, fmt.Errorf("tiers: at least one tier is required"))
	}

	seen := make(map[string]string)
	for name, tier := range doc.Tiers {
		if name == "" {
			errs = append(errs, fmt.Errorf("tiers: tier name must not be empty"))
		}
		for i, s := range tier.Subjects {
			prefix := fmt.Sprintf("tiers[%q].subjects[%d]", name, i)
			if s.ID == "" {
				errs = append(errs, fmt.Errorf("%s.id is required", prefix))
			} else if s.ID != domain.Slugify(s.ID) {
				errs = append(errs, fmt.Errorf("%s.id: %q is not in slug form", prefix, s.ID))
			} else if other, dup := seen[s.ID]; dup {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q (also in tier %q)", prefix, s.ID, other))
			} else {
				seen[s.ID] = name
			}
			if s.Name == "" {
				errs = append(errs, fmt.Errorf("%s.name is required", prefix))
			}
			for j, r := range s.Resources {
				res := domain.Resource{Type: domain.ResourceType(r.Type), Value: r.Value, URL: r.URL}
				if err := res.Validate(); err != nil {
					errs = append(errs, fmt.Errorf("%s.resources[%d]: %v", prefix, j, err))
				}
			}
		}
	}

	return errs
}
