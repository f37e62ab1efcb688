// Package filter selects subjects by status, tier category, free text and
// boolean expressions.
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/alexanderramin/polymath/internal/domain"
)

// All disables the status or category filter.
const All = "all"

// ErrInvalidFilter is returned for an unknown status or a bad expression.
var ErrInvalidFilter = errors.New("invalid filter")

// Criteria are the user-facing filter inputs. Empty fields match
// everything.
type Criteria struct {
	Status   string
	Category string
	Search   string
	Where    string
}

// Match is a subject that passed the filter.
type Match struct {
	TierName  string
	Tier      *domain.Tier
	Subject   *domain.Subject
	Progress  domain.Progress
	Readiness domain.Readiness
}

// Env is what a Where expression sees, e.g.
// `progress == "partial" && len(prereq) > 0`.
type Env struct {
	ID        string   `expr:"id"`
	Name      string   `expr:"name"`
	Summary   string   `expr:"summary"`
	Goal      string   `expr:"goal"`
	Tier      string   `expr:"tier"`
	Category  string   `expr:"category"`
	Progress  string   `expr:"progress"`
	Readiness string   `expr:"readiness"`
	Custom    bool     `expr:"custom"`
	Prereq    []string `expr:"prereq"`
	Coreq     []string `expr:"coreq"`
	Soft      []string `expr:"soft"`
	Resources int      `expr:"resources"`
	Projects  int      `expr:"projects"`
	Notes     bool     `expr:"notes"`
}

// Filter is a compiled Criteria.
type Filter struct {
	status   *domain.Progress
	category string
	search   string
	where    *vm.Program
}

// New validates and compiles c.
func New(c Criteria) (*Filter, error) {
	f := &Filter{
		search: strings.ToLower(strings.TrimSpace(c.Search)),
	}
	if c.Status != "" && c.Status != All {
		p, ok := domain.StatusFilters[c.Status]
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q (want not-started, in-progress or completed)", ErrInvalidFilter, c.Status)
		}
		f.status = &p
	}
	if c.Category != All {
		f.category = c.Category
	}
	if where := strings.TrimSpace(c.Where); where != "" {
		program, err := expr.Compile(where, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		f.where = program
	}
	return f, nil
}

// Apply returns the matching subjects in display order: tiers by order,
// subjects in tier order.
func (f *Filter) Apply(tiers domain.TierMap, progress domain.ProgressMap) ([]Match, error) {
	var out []Match
	for _, name := range tiers.Names() {
		tier := tiers[name]
		if f.category != "" && tier.Category != f.category {
			continue
		}
		for _, s := range tier.Subjects {
			m := Match{
				TierName:  name,
				Tier:      tier,
				Subject:   s,
				Progress:  progress.Get(s.ID),
				Readiness: s.Readiness(progress),
			}
			ok, err := f.matches(m)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *Filter) matches(m Match) (bool, error) {
	if f.status != nil && m.Progress != *f.status {
		return false, nil
	}
	if f.search != "" && !strings.Contains(searchText(m), f.search) {
		return false, nil
	}
	if f.where == nil {
		return true, nil
	}
	result, err := expr.Run(f.where, envFor(m))
	if err != nil {
		return false, fmt.Errorf("evaluating filter on %q: %w", m.Subject.ID, err)
	}
	ok, _ := result.(bool)
	return ok, nil
}

func searchText(m Match) string {
	s := m.Subject
	parts := []string{s.ID, s.Name, s.Summary, s.Goal, m.TierName}
	parts = append(parts, s.Prereq...)
	return strings.ToLower(strings.Join(parts, " "))
}

func envFor(m Match) Env {
	s := m.Subject
	return Env{
		ID:        s.ID,
		Name:      s.Name,
		Summary:   s.Summary,
		Goal:      s.Goal,
		Tier:      m.TierName,
		Category:  m.Tier.Category,
		Progress:  string(m.Progress),
		Readiness: string(m.Readiness),
		Custom:    s.IsCustom,
		Prereq:    slices.Clone(s.Prereq),
		Coreq:     slices.Clone(s.Coreq),
		Soft:      slices.Clone(s.Soft),
		Resources: len(s.Resources),
		Projects:  len(s.Projects),
		Notes:     s.Notepad != "",
	}
}

// Categories lists the distinct tier categories in display order.
func Categories(tiers domain.TierMap) []string {
	var out []string
	for _, name := range tiers.Names() {
		if c := tiers[name].Category; !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
