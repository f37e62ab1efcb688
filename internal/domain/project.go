package domain

import (
	"fmt"
	"strings"
)

// Project is a piece of practical work owned by a single subject.
type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Goal      string        `json:"goal"`
	Resources []Resource    `json:"resources"`
	Status    ProjectStatus `json:"status"`
	Notepad   string        `json:"notepad,omitempty"`
}

// NewProject creates a not-started project. Name and goal are required.
func NewProject(name, goal string, resources []Resource) (*Project, error) {
	name = strings.TrimSpace(name)
	goal = strings.TrimSpace(goal)
	if name == "" {
		return nil, fmt.Errorf("project name is required: %w", ErrInvalid)
	}
	if goal == "" {
		return nil, fmt.Errorf("project goal is required: %w", ErrInvalid)
	}
	if resources == nil {
		resources = []Resource{}
	}
	return &Project{
		ID:        NewID(),
		Name:      name,
		Goal:      goal,
		Resources: cloneResources(resources),
		Status:    ProjectNotStarted,
	}, nil
}

// Clone returns a deep copy of p.
func (p Project) Clone() Project {
	p.Resources = cloneResources(p.Resources)
	return p
}

func cloneProjects(in []Project) []Project {
	if in == nil {
		return nil
	}
	out := make([]Project, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
