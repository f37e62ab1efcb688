// Package migrator moves working state in and out of the portable Export
// Document: Export splits subjects into overlays and custom definitions,
// Import validates a document and rebuilds state through the merge engine.
package migrator

import (
	"reflect"
	"time"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/exchange"
	"github.com/alexanderramin/polymath/internal/merge"
)

// State is the part of the working state carried by an Export Document.
type State struct {
	Tiers    domain.TierMap
	Progress domain.ProgressMap
	Theme    domain.Theme
}

// Export snapshots state as a schema "3.0" document. Catalog subjects
// contribute an overlay only for fields that differ from baseline, the
// catalog the state was merged from; a nil baseline treats every
// non-empty field as user-added.
func Export(state State, baseline domain.TierMap, now time.Time) *exchange.Document {
	now = now.UTC()
	doc := &exchange.Document{
		Schema:         exchange.SchemaVersion,
		ExportDate:     now,
		LastModified:   now,
		Progress:       state.Progress.Clone(),
		Overlays:       map[string]exchange.Overlay{},
		CustomSubjects: map[string]exchange.CustomSubject{},
		CustomTiers:    map[string]exchange.CustomTier{},
		Theme:          domain.CoalesceStr(string(state.Theme), string(domain.ThemeLight)),
	}
	base := merge.Merge(baseline, nil)

	for _, name := range state.Tiers.Names() {
		tier := state.Tiers[name]
		for i, s := range tier.Subjects {
			if s.IsCustom {
				doc.CustomSubjects[s.ID] = customDefinition(name, i, s)
				if tier.IsCustom() {
					doc.CustomTiers[name] = exchange.CustomTier{
						Category: domain.CoalesceStr(tier.Category, domain.CustomCategory),
						Order:    domain.IntPtr(tier.Order),
					}
				}
				continue
			}
			orig, _ := base.Find(s.ID)
			if o := overlayFor(s, orig); !o.IsEmpty() {
				doc.Overlays[s.ID] = o
			}
		}
	}

	if len(doc.Overlays) == 0 {
		doc.Overlays = nil
	}
	if len(doc.CustomSubjects) == 0 {
		doc.CustomSubjects = nil
	}
	if len(doc.CustomTiers) == 0 {
		doc.CustomTiers = nil
	}
	return doc
}

func customDefinition(tierName string, position int, s *domain.Subject) exchange.CustomSubject {
	c := s.Clone()
	c.Normalize()
	def := exchange.CustomSubject{
		Name:      c.Name,
		Tier:      tierName,
		Position:  &position,
		Prereq:    c.Prereq,
		Coreq:     c.Coreq,
		Soft:      c.Soft,
		Summary:   c.Summary,
		Resources: c.Resources,
		Projects:  c.Projects,
		Notepad:   c.Notepad,
	}
	if c.Goal != "" {
		def.Goal = domain.StrPtr(c.Goal)
	}
	return def
}

// overlayFor diffs s against its catalog baseline.
func overlayFor(s, base *domain.Subject) exchange.Overlay {
	if base == nil {
		base = &domain.Subject{}
	}
	var o exchange.Overlay
	if s.Goal != base.Goal {
		o.Goal = domain.StrPtr(s.Goal)
	}
	if s.Notepad != base.Notepad {
		o.Notepad = domain.StrPtr(s.Notepad)
	}
	if !sameList(s.Resources, base.Resources) {
		c := s.Clone()
		c.Normalize()
		o.Resources = &c.Resources
	}
	if !sameList(s.Projects, base.Projects) {
		c := s.Clone()
		c.Normalize()
		o.Projects = &c.Projects
	}
	return o
}

func sameList[T any](a, b []T) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
