package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/polymath/internal/domain"
)

// NewProject describes a project to add to a subject.
type NewProject struct {
	Name      string
	Goal      string
	Resources []domain.Resource
}

// ProjectUpdate holds the editable fields of a project. Nil fields are left
// as they are; name and goal cannot be cleared.
type ProjectUpdate struct {
	Name    *string
	Goal    *string
	Notepad *string
}

type projectService struct {
	t *Tracker
}

// withProject runs fn against the project inside a mutation.
func (s *projectService) withProject(ctx context.Context, subjectID, projectID string, fn func(p *domain.Project) error) error {
	return s.t.mutate(ctx, func(ws *workingState) error {
		subject, err := ws.tiers.Find(subjectID)
		if err != nil {
			return err
		}
		p, err := subject.Project(projectID)
		if err != nil {
			return err
		}
		return fn(p)
	})
}

func (s *projectService) Add(ctx context.Context, subjectID string, in NewProject) (*domain.Project, error) {
	for _, r := range in.Resources {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	p, err := domain.NewProject(in.Name, in.Goal, in.Resources)
	if err != nil {
		return nil, err
	}
	for i := range p.Resources {
		if p.Resources[i].ID == "" {
			p.Resources[i].ID = domain.NewID()
		}
	}

	err = s.t.mutate(ctx, func(ws *workingState) error {
		subject, err := ws.tiers.Find(subjectID)
		if err != nil {
			return err
		}
		subject.Projects = append(subject.Projects, p.Clone())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Update(ctx context.Context, subjectID, projectID string, in ProjectUpdate) error {
	return s.withProject(ctx, subjectID, projectID, func(p *domain.Project) error {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("project name is required: %w", domain.ErrInvalid)
			}
			p.Name = name
		}
		if in.Goal != nil {
			goal := strings.TrimSpace(*in.Goal)
			if goal == "" {
				return fmt.Errorf("project goal is required: %w", domain.ErrInvalid)
			}
			p.Goal = goal
		}
		if in.Notepad != nil {
			p.Notepad = *in.Notepad
		}
		return nil
	})
}

func (s *projectService) Delete(ctx context.Context, subjectID, projectID string) error {
	return s.t.mutate(ctx, func(ws *workingState) error {
		subject, err := ws.tiers.Find(subjectID)
		if err != nil {
			return err
		}
		return subject.RemoveProject(projectID)
	})
}

func (s *projectService) SetStatus(ctx context.Context, subjectID, projectID string, status domain.ProjectStatus) error {
	if !status.Valid() {
		return fmt.Errorf("project status %q: %w", status, domain.ErrInvalid)
	}
	return s.withProject(ctx, subjectID, projectID, func(p *domain.Project) error {
		p.Status = status
		return nil
	})
}

func (s *projectService) CycleStatus(ctx context.Context, subjectID, projectID string) (domain.ProjectStatus, error) {
	var next domain.ProjectStatus
	err := s.withProject(ctx, subjectID, projectID, func(p *domain.Project) error {
		p.Status = p.Status.Next()
		next = p.Status
		return nil
	})
	return next, err
}

func (s *projectService) AddResource(ctx context.Context, subjectID, projectID, value, url string) (*domain.Resource, error) {
	r, err := domain.NewResource(value, url)
	if err != nil {
		return nil, err
	}
	err = s.withProject(ctx, subjectID, projectID, func(p *domain.Project) error {
		p.Resources = append(p.Resources, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *projectService) RemoveResource(ctx context.Context, subjectID, projectID, resourceID string) error {
	return s.withProject(ctx, subjectID, projectID, func(p *domain.Project) error {
		var err error
		p.Resources, err = domain.RemoveResource(p.Resources, resourceID)
		return err
	})
}
