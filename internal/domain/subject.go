package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Subject is a learning topic. ID is immutable and is the join key for
// dependencies, progress and dependents.
type Subject struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Summary   string     `json:"summary,omitempty"`
	Goal      string     `json:"goal,omitempty"`
	Prereq    []string   `json:"prereq"`
	Coreq     []string   `json:"coreq"`
	Soft      []string   `json:"soft"`
	Resources []Resource `json:"resources"`
	Projects  []Project  `json:"projects"`
	IsCustom  bool       `json:"isCustom"`
	Notepad   string     `json:"notepad,omitempty"`
}

// Slugify derives a subject id from a display name:
// "Category Theory" -> "category-theory".
func Slugify(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// Clone returns a deep copy of s.
func (s *Subject) Clone() *Subject {
	if s == nil {
		return nil
	}
	c := *s
	c.Prereq = slices.Clone(s.Prereq)
	c.Coreq = slices.Clone(s.Coreq)
	c.Soft = slices.Clone(s.Soft)
	c.Resources = cloneResources(s.Resources)
	c.Projects = cloneProjects(s.Projects)
	return &c
}

// Normalize replaces nil lists with empty ones so the subject serializes
// the same way regardless of how it was built.
func (s *Subject) Normalize() {
	if s.Prereq == nil {
		s.Prereq = []string{}
	}
	if s.Coreq == nil {
		s.Coreq = []string{}
	}
	if s.Soft == nil {
		s.Soft = []string{}
	}
	if s.Resources == nil {
		s.Resources = []Resource{}
	}
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	for i := range s.Projects {
		if s.Projects[i].Resources == nil {
			s.Projects[i].Resources = []Resource{}
		}
		if s.Projects[i].Status == "" {
			s.Projects[i].Status = ProjectNotStarted
		}
	}
}

// AssignMissingIDs gives every project and resource lacking an id a
// deterministic one derived from the subject id and its position.
func (s *Subject) AssignMissingIDs() {
	for i := range s.Resources {
		if s.Resources[i].ID == "" {
			s.Resources[i].ID = StableID(s.ID, "resource", i, s.Resources[i].Value)
		}
	}
	for i := range s.Projects {
		p := &s.Projects[i]
		if p.ID == "" {
			p.ID = StableID(s.ID, "project", i, p.Name)
		}
		for j := range p.Resources {
			if p.Resources[j].ID == "" {
				p.Resources[j].ID = StableID(p.ID, "resource", j, p.Resources[j].Value)
			}
		}
	}
}

// Project returns the project with the given id.
func (s *Subject) Project(id string) (*Project, error) {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i], nil
		}
	}
	return nil, fmt.Errorf("project %q in subject %q: %w", id, s.ID, ErrProjectNotFound)
}

// RemoveProject drops the project with the given id.
func (s *Subject) RemoveProject(id string) error {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			s.Projects = append(s.Projects[:i:i], s.Projects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("project %q in subject %q: %w", id, s.ID, ErrProjectNotFound)
}

// DependsOn reports whether s lists id as a prerequisite, corequisite or
// recommended background.
func (s *Subject) DependsOn(id string) bool {
	return slices.Contains(s.Prereq, id) || slices.Contains(s.Coreq, id) || slices.Contains(s.Soft, id)
}

// Readiness derives the subject's status from its own progress and the
// completion of its prerequisites.
func (s *Subject) Readiness(progress ProgressMap) Readiness {
	switch progress.Get(s.ID) {
	case ProgressComplete:
		return ReadinessComplete
	case ProgressPartial:
		return ReadinessInProgress
	}
	for _, id := range s.Prereq {
		if progress.Get(id) != ProgressComplete {
			return ReadinessBlocked
		}
	}
	return ReadinessReady
}
