// Package merge combines the static catalog with a user's Export Document
// to produce the working tier map.
package merge

import (
	"cmp"
	"math"
	"slices"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/exchange"
)

// Merge returns catalog with doc's overlays, custom subjects and custom
// tiers applied. It never mutates its inputs and is deterministic: equal
// inputs produce deep-equal outputs. A nil doc yields a plain copy of the
// catalog.
func Merge(catalog domain.TierMap, doc *exchange.Document) domain.TierMap {
	out := catalog.Clone()
	for _, tier := range out {
		for _, s := range tier.Subjects {
			s.IsCustom = false
			s.Normalize()
			s.AssignMissingIDs()
		}
	}
	if doc == nil {
		return out
	}

	for _, id := range sortedKeys(doc.Overlays) {
		s, err := out.Find(id)
		if err != nil {
			// Dropped from the catalog since the overlay was captured.
			continue
		}
		applyOverlay(s, doc.Overlays[id])
	}

	for _, id := range customOrder(doc.CustomSubjects) {
		if _, exists := out.Locate(id); exists {
			continue
		}
		def := doc.CustomSubjects[id]
		tier, ok := out[def.Tier]
		if !ok {
			tier = newCustomTier(doc.CustomTiers, def.Tier)
			out[def.Tier] = tier
		}
		s := customSubject(id, def)
		pos := len(tier.Subjects)
		if def.Position != nil && *def.Position < pos {
			pos = *def.Position
		}
		tier.Subjects = slices.Insert(tier.Subjects, pos, s)
	}

	return out
}

func applyOverlay(s *domain.Subject, o exchange.Overlay) {
	if o.Goal != nil {
		s.Goal = *o.Goal
	}
	if o.Notepad != nil {
		s.Notepad = *o.Notepad
	}
	if o.Resources != nil {
		s.Resources = slices.Clone(*o.Resources)
	}
	if o.Projects != nil {
		s.Projects = make([]domain.Project, len(*o.Projects))
		for i, p := range *o.Projects {
			s.Projects[i] = p.Clone()
		}
	}
	s.Normalize()
	s.AssignMissingIDs()
}

func customSubject(id string, def exchange.CustomSubject) *domain.Subject {
	s := &domain.Subject{
		ID:        id,
		Name:      def.Name,
		Summary:   def.Summary,
		Prereq:    slices.Clone(def.Prereq),
		Coreq:     slices.Clone(def.Coreq),
		Soft:      slices.Clone(def.Soft),
		Resources: slices.Clone(def.Resources),
		IsCustom:  true,
		Notepad:   def.Notepad,
	}
	if def.Goal != nil {
		s.Goal = *def.Goal
	}
	for _, p := range def.Projects {
		s.Projects = append(s.Projects, p.Clone())
	}
	s.Normalize()
	s.AssignMissingIDs()
	return s
}

func newCustomTier(defs map[string]exchange.CustomTier, name string) *domain.Tier {
	def := defs[name]
	order := domain.CustomTierOrder
	if def.Order != nil {
		order = *def.Order
	}
	return &domain.Tier{
		Category: domain.CoalesceStr(def.Category, domain.CustomCategory),
		Order:    order,
		Subjects: []*domain.Subject{},
	}
}

// customOrder sorts custom subject ids by tier, then position, then id,
// so positional inserts replay in ascending order.
func customOrder(defs map[string]exchange.CustomSubject) []string {
	ids := sortedKeys(defs)
	position := func(id string) int {
		if p := defs[id].Position; p != nil {
			return *p
		}
		return math.MaxInt
	}
	slices.SortStableFunc(ids, func(a, b string) int {
		if c := cmp.Compare(defs[a].Tier, defs[b].Tier); c != 0 {
			return c
		}
		return cmp.Compare(position(a), position(b))
	})
	return ids
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
