package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/polymath/internal/domain"
)

// TierSummary is one row of the dashboard.
type TierSummary struct {
	Name     string
	Category string
	Custom   bool
	Done     int
	Total    int
}

// Dashboard summarizes progress across all tiers.
type Dashboard struct {
	Tiers     []TierSummary
	Current   []domain.SubjectRef
	Completed []domain.SubjectRef
	Done      int
	Total     int
}

type progressService struct {
	t *Tracker
}

func (s *progressService) Get(ctx context.Context, subjectID string) (domain.Progress, error) {
	var p domain.Progress
	var err error
	s.t.read(func(tiers domain.TierMap, progress domain.ProgressMap) {
		if _, err = tiers.Find(subjectID); err == nil {
			p = progress.Get(subjectID)
		}
	})
	return p, err
}

func (s *progressService) Set(ctx context.Context, subjectID string, p domain.Progress) (err error) {
	startedAt := time.Now()
	defer func() {
		s.t.observe(ctx, "set-progress", startedAt, map[string]any{"id": subjectID, "progress": string(p)}, err)
	}()

	if !p.Valid() {
		return fmt.Errorf("progress %q: %w", p, domain.ErrInvalid)
	}
	return s.t.mutate(ctx, func(ws *workingState) error {
		if _, err := ws.tiers.Find(subjectID); err != nil {
			return err
		}
		ws.progress[subjectID] = p
		return nil
	})
}

func (s *progressService) Cycle(ctx context.Context, subjectID string) (domain.Progress, error) {
	var next domain.Progress
	err := s.t.mutate(ctx, func(ws *workingState) error {
		if _, err := ws.tiers.Find(subjectID); err != nil {
			return err
		}
		next = ws.progress.Get(subjectID).Next()
		ws.progress[subjectID] = next
		return nil
	})
	return next, err
}

func (s *progressService) Dashboard(ctx context.Context) *Dashboard {
	d := &Dashboard{}
	s.t.read(func(tiers domain.TierMap, progress domain.ProgressMap) {
		for _, name := range tiers.Names() {
			tier := tiers[name]
			done, total := tier.Progress(progress)
			d.Tiers = append(d.Tiers, TierSummary{
				Name:     name,
				Category: tier.Category,
				Custom:   tier.IsCustom(),
				Done:     done,
				Total:    total,
			})
			d.Done += done
			d.Total += total
			for _, subj := range tier.Subjects {
				ref := domain.SubjectRef{ID: subj.ID, Name: subj.Name}
				switch progress.Get(subj.ID) {
				case domain.ProgressPartial:
					d.Current = append(d.Current, ref)
				case domain.ProgressComplete:
					d.Completed = append(d.Completed, ref)
				}
			}
		}
	})
	return d
}
