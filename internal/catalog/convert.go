package catalog

import (
	"slices"

	"github.com/alexanderramin/polymath/internal/domain"
)

// Convert transforms a validated Document into the working tier map.
// Call Validate first; Convert assumes the document is valid.
func Convert(doc *Document) domain.TierMap {
	tiers := make(domain.TierMap, len(doc.Tiers))
	for name, def := range doc.Tiers {
		tier := &domain.Tier{
			Category: def.Category,
			Order:    def.Order,
			Subjects: make([]*domain.Subject, 0, len(def.Subjects)),
		}
		for _, sd := range def.Subjects {
			tier.Subjects = append(tier.Subjects, convertSubject(sd))
		}
		tiers[name] = tier
	}
	return tiers
}

func convertSubject(sd SubjectDef) *domain.Subject {
	s := &domain.Subject{
		ID:       sd.ID,
		Name:     sd.Name,
		Summary:  sd.Summary,
		Goal:     sd.Goal,
		Prereq:   slices.Clone(sd.Prereq),
		Coreq:    slices.Clone(sd.Coreq),
		Soft:     slices.Clone(sd.Soft),
		IsCustom: false,
	}
	for _, r := range sd.Resources {
		s.Resources = append(s.Resources, domain.Resource{
			Type:  domain.ResourceType(r.Type),
			Value: r.Value,
			URL:   r.URL,
		})
	}
	s.Normalize()
	s.AssignMissingIDs()
	return s
}
