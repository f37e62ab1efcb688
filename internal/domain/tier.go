package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// Tier groups subjects under a named category.
type Tier struct {
	Category string     `json:"category"`
	Order    int        `json:"order"`
	Subjects []*Subject `json:"subjects"`
}

// IsCustom reports whether the tier was created by the user.
func (t *Tier) IsCustom() bool {
	return t.Order >= CustomTierOrder || t.Category == CustomCategory
}

// Clone returns a deep copy of t.
func (t *Tier) Clone() *Tier {
	if t == nil {
		return nil
	}
	c := &Tier{Category: t.Category, Order: t.Order, Subjects: make([]*Subject, len(t.Subjects))}
	for i, s := range t.Subjects {
		c.Subjects[i] = s.Clone()
	}
	return c
}

// Progress returns how many of the tier's subjects are complete.
func (t *Tier) Progress(progress ProgressMap) (done, total int) {
	for _, s := range t.Subjects {
		if progress.Get(s.ID) == ProgressComplete {
			done++
		}
	}
	return done, len(t.Subjects)
}

// TierMap is the working data model: tiers keyed by display name.
type TierMap map[string]*Tier

// Location pins a subject to its tier.
type Location struct {
	TierName string
	Tier     *Tier
	Subject  *Subject
	Index    int
}

// SubjectRef is the id/name pair used for autocomplete.
type SubjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Clone returns a deep copy of m.
func (m TierMap) Clone() TierMap {
	out := make(TierMap, len(m))
	for name, t := range m {
		out[name] = t.Clone()
	}
	return out
}

// Names returns tier names sorted by order, then by name.
func (m TierMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(m[a].Order, m[b].Order); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return names
}

// Locate finds a subject and its tier.
func (m TierMap) Locate(id string) (Location, bool) {
	for _, name := range m.Names() {
		t := m[name]
		for i, s := range t.Subjects {
			if s.ID == id {
				return Location{TierName: name, Tier: t, Subject: s, Index: i}, true
			}
		}
	}
	return Location{}, false
}

// Find returns the subject with the given id.
func (m TierMap) Find(id string) (*Subject, error) {
	loc, ok := m.Locate(id)
	if !ok {
		return nil, fmt.Errorf("subject %q: %w", id, ErrSubjectNotFound)
	}
	return loc.Subject, nil
}

// Subjects returns every subject in tier order.
func (m TierMap) Subjects() []*Subject {
	var out []*Subject
	for _, name := range m.Names() {
		out = append(out, m[name].Subjects...)
	}
	return out
}

// Refs returns the id/name pairs of all subjects.
func (m TierMap) Refs() []SubjectRef {
	subjects := m.Subjects()
	refs := make([]SubjectRef, len(subjects))
	for i, s := range subjects {
		refs[i] = SubjectRef{ID: s.ID, Name: s.Name}
	}
	return refs
}

// Dependents returns the subjects that list id as a prerequisite,
// corequisite or recommended background.
func (m TierMap) Dependents(id string) []*Subject {
	var out []*Subject
	for _, s := range m.Subjects() {
		if s.ID != id && s.DependsOn(id) {
			out = append(out, s)
		}
	}
	return out
}

// Remove deletes a subject from its tier and prunes the tier when it is
// left empty and user-created. It reports whether the tier was pruned.
func (m TierMap) Remove(id string) (pruned bool, err error) {
	loc, ok := m.Locate(id)
	if !ok {
		return false, fmt.Errorf("subject %q: %w", id, ErrSubjectNotFound)
	}
	loc.Tier.Subjects = slices.Delete(loc.Tier.Subjects, loc.Index, loc.Index+1)
	if len(loc.Tier.Subjects) == 0 && loc.Tier.IsCustom() {
		delete(m, loc.TierName)
		return true, nil
	}
	return false, nil
}
