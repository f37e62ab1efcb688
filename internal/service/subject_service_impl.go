package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/filter"
)

// SubjectDetail is a subject with its derived status.
type SubjectDetail struct {
	TierName   string
	Tier       *domain.Tier
	Subject    *domain.Subject
	Progress   domain.Progress
	Readiness  domain.Readiness
	Dependents []domain.SubjectRef
}

// NewSubject describes a custom subject to create.
type NewSubject struct {
	Name    string
	Tier    string
	Summary string
	Goal    string
	Prereq  []string
	Coreq   []string
	Soft    []string
}

// SubjectUpdate holds the editable fields of a subject. Nil fields are left
// as they are.
type SubjectUpdate struct {
	Summary *string
	Goal    *string
	Notepad *string
}

// SplitIDs parses a comma-separated list of subject ids, trimming spaces
// and dropping empty entries.
func SplitIDs(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func cleanIDs(ids []string) []string {
	out := []string{}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

type subjectService struct {
	t *Tracker
}

func (s *subjectService) Get(ctx context.Context, id string) (*SubjectDetail, error) {
	var detail *SubjectDetail
	var err error
	s.t.read(func(tiers domain.TierMap, progress domain.ProgressMap) {
		loc, ok := tiers.Locate(id)
		if !ok {
			err = fmt.Errorf("subject %q: %w", id, domain.ErrSubjectNotFound)
			return
		}
		detail = &SubjectDetail{
			TierName:   loc.TierName,
			Tier:       &domain.Tier{Category: loc.Tier.Category, Order: loc.Tier.Order},
			Subject:    loc.Subject.Clone(),
			Progress:   progress.Get(id),
			Readiness:  loc.Subject.Readiness(progress),
			Dependents: refsOf(tiers.Dependents(id)),
		}
	})
	return detail, err
}

func (s *subjectService) List(ctx context.Context, c filter.Criteria) ([]filter.Match, error) {
	f, err := filter.New(c)
	if err != nil {
		return nil, err
	}
	var tiers domain.TierMap
	var progress domain.ProgressMap
	s.t.read(func(tm domain.TierMap, pm domain.ProgressMap) {
		tiers, progress = tm.Clone(), pm.Clone()
	})
	return f.Apply(tiers, progress)
}

func (s *subjectService) Create(ctx context.Context, in NewSubject) (subject *domain.Subject, err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": in.Name, "tier": in.Tier}
	defer func() { s.t.observe(ctx, "create-subject", startedAt, fields, err) }()

	name := strings.TrimSpace(in.Name)
	tierName := strings.TrimSpace(in.Tier)
	if name == "" {
		return nil, fmt.Errorf("subject name is required: %w", domain.ErrInvalid)
	}
	if tierName == "" {
		return nil, fmt.Errorf("tier is required: %w", domain.ErrInvalid)
	}
	id := domain.Slugify(name)
	if id == "" {
		return nil, fmt.Errorf("subject name %q has no usable characters: %w", name, domain.ErrInvalid)
	}

	created := &domain.Subject{
		ID:        id,
		Name:      name,
		Summary:   strings.TrimSpace(in.Summary),
		Goal:      strings.TrimSpace(in.Goal),
		Prereq:    cleanIDs(in.Prereq),
		Coreq:     cleanIDs(in.Coreq),
		Soft:      cleanIDs(in.Soft),
		Resources: []domain.Resource{},
		Projects:  []domain.Project{},
		IsCustom:  true,
	}

	err = s.t.mutate(ctx, func(ws *workingState) error {
		if _, ok := ws.tiers.Locate(id); ok {
			return fmt.Errorf("subject %q: %w", id, domain.ErrDuplicateSubject)
		}
		tier, ok := ws.tiers[tierName]
		if !ok {
			tier = &domain.Tier{Category: domain.CustomCategory, Order: domain.CustomTierOrder}
			ws.tiers[tierName] = tier
			fields["new_tier"] = true
		}
		tier.Subjects = append(tier.Subjects, created.Clone())
		ws.progress[id] = domain.ProgressEmpty
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["id"] = id
	return created, nil
}

func (s *subjectService) Update(ctx context.Context, id string, in SubjectUpdate) (err error) {
	startedAt := time.Now()
	defer func() { s.t.observe(ctx, "update-subject", startedAt, map[string]any{"id": id}, err) }()

	return s.t.mutate(ctx, func(ws *workingState) error {
		subject, err := ws.tiers.Find(id)
		if err != nil {
			return err
		}
		if in.Summary != nil {
			if !subject.IsCustom {
				return fmt.Errorf("summary of %q: %w", id, domain.ErrNotCustom)
			}
			subject.Summary = strings.TrimSpace(*in.Summary)
		}
		if in.Goal != nil {
			subject.Goal = strings.TrimSpace(*in.Goal)
		}
		if in.Notepad != nil {
			subject.Notepad = *in.Notepad
		}
		return nil
	})
}

// Delete removes a custom subject together with its progress entry and,
// when it was the last subject there, its custom tier. Subjects that still
// reference it block the delete unless force is set.
func (s *subjectService) Delete(ctx context.Context, id string, force bool) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"id": id, "force": force}
	defer func() { s.t.observe(ctx, "delete-subject", startedAt, fields, err) }()

	return s.t.mutate(ctx, func(ws *workingState) error {
		subject, err := ws.tiers.Find(id)
		if err != nil {
			return err
		}
		if !subject.IsCustom {
			return fmt.Errorf("deleting %q: %w", id, domain.ErrNotCustom)
		}
		if deps := ws.tiers.Dependents(id); len(deps) > 0 && !force {
			return &DependentsError{SubjectID: id, Dependents: refsOf(deps)}
		}
		pruned, err := ws.tiers.Remove(id)
		if err != nil {
			return err
		}
		delete(ws.progress, id)
		fields["tier_pruned"] = pruned
		return nil
	})
}

func (s *subjectService) Dependents(ctx context.Context, id string) ([]domain.SubjectRef, error) {
	var refs []domain.SubjectRef
	var err error
	s.t.read(func(tiers domain.TierMap, _ domain.ProgressMap) {
		if _, err = tiers.Find(id); err != nil {
			return
		}
		refs = refsOf(tiers.Dependents(id))
	})
	return refs, err
}

func (s *subjectService) AddResource(ctx context.Context, subjectID, value, url string) (*domain.Resource, error) {
	r, err := domain.NewResource(value, url)
	if err != nil {
		return nil, err
	}
	err = s.t.mutate(ctx, func(ws *workingState) error {
		subject, err := ws.tiers.Find(subjectID)
		if err != nil {
			return err
		}
		subject.Resources = append(subject.Resources, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *subjectService) RemoveResource(ctx context.Context, subjectID, resourceID string) error {
	return s.t.mutate(ctx, func(ws *workingState) error {
		subject, err := ws.tiers.Find(subjectID)
		if err != nil {
			return err
		}
		subject.Resources, err = domain.RemoveResource(subject.Resources, resourceID)
		return err
	})
}

func (s *subjectService) Refs(ctx context.Context) []domain.SubjectRef {
	var refs []domain.SubjectRef
	s.t.read(func(tiers domain.TierMap, _ domain.ProgressMap) {
		refs = tiers.Refs()
	})
	return refs
}

func (s *subjectService) Suggest(ctx context.Context, input string) []domain.SubjectRef {
	return filter.Suggest(s.Refs(ctx), input, filter.DefaultSuggestLimit)
}

func (s *subjectService) Categories(ctx context.Context) []string {
	var out []string
	s.t.read(func(tiers domain.TierMap, _ domain.ProgressMap) {
		out = filter.Categories(tiers)
	})
	return out
}

func refsOf(subjects []*domain.Subject) []domain.SubjectRef {
	refs := make([]domain.SubjectRef, len(subjects))
	for i, s := range subjects {
		refs[i] = domain.SubjectRef{ID: s.ID, Name: s.Name}
	}
	return refs
}
