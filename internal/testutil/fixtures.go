package testutil

import (
	"github.com/alexanderramin/polymath/internal/catalog"
	"github.com/alexanderramin/polymath/internal/domain"
)

// NewTestCatalog returns a small two-tier catalog:
//
//	Foundations (math, 1): arithmetic, algebra-1 (prereq arithmetic)
//	Sciences (science, 2): physics (prereq algebra-1, soft arithmetic)
func NewTestCatalog() domain.TierMap {
	tiers := domain.TierMap{
		"Foundations": {Category: "math", Order: 1, Subjects: []*domain.Subject{
			{ID: "arithmetic", Name: "Arithmetic", Summary: "Numbers."},
			{ID: "algebra-1", Name: "Algebra I", Summary: "Equations.", Prereq: []string{}},
		}},
		"Sciences": {Category: "science", Order: 2, Subjects: []*domain.Subject{
			{ID: "physics", Name: "Physics", Prereq: []string{"algebra-1"}, Soft: []string{"arithmetic"}},
		}},
	}
	for _, t := range tiers {
		for _, s := range t.Subjects {
			s.Normalize()
		}
	}
	return tiers
}

// NewTestCatalogSource wraps NewTestCatalog in a catalog.Source.
func NewTestCatalogSource() catalog.Source {
	return catalog.StaticSource{Catalog: &catalog.Catalog{Version: "test", Tiers: NewTestCatalog()}}
}

// SubjectOption customizes a subject built by NewTestSubject.
type SubjectOption func(*domain.Subject)

func WithGoal(goal string) SubjectOption {
	return func(s *domain.Subject) {
		s.Goal = goal
	}
}

func WithPrereq(ids ...string) SubjectOption {
	return func(s *domain.Subject) {
		s.Prereq = ids
	}
}

func WithResources(rs ...domain.Resource) SubjectOption {
	return func(s *domain.Subject) {
		s.Resources = rs
	}
}

func WithProjects(ps ...domain.Project) SubjectOption {
	return func(s *domain.Subject) {
		s.Projects = ps
	}
}

// NewTestSubject builds a custom subject whose id is derived from name.
func NewTestSubject(name string, opts ...SubjectOption) *domain.Subject {
	s := &domain.Subject{ID: domain.Slugify(name), Name: name, IsCustom: true}
	for _, opt := range opts {
		opt(s)
	}
	s.Normalize()
	return s
}

// Link returns a link resource with a fixed id.
func Link(id, value, url string) domain.Resource {
	return domain.Resource{ID: id, Type: domain.ResourceLink, Value: value, URL: url}
}
