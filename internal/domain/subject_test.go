package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Category Theory":      "category-theory",
		"  Linear Algebra II ": "linear-algebra-ii",
		"C++ & Rust!":          "c-rust",
		"---":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestSubject_Clone_IsDeep(t *testing.T) {
	s := &Subject{
		ID:        "algebra-1",
		Prereq:    []string{"arithmetic"},
		Resources: []Resource{{ID: "r1", Type: ResourceText, Value: "book"}},
		Projects:  []Project{{ID: "p1", Name: "Proofs", Resources: []Resource{{ID: "r2", Type: ResourceText, Value: "notes"}}}},
	}
	c := s.Clone()
	c.Prereq[0] = "changed"
	c.Resources[0].Value = "changed"
	c.Projects[0].Resources[0].Value = "changed"

	assert.Equal(t, "arithmetic", s.Prereq[0])
	assert.Equal(t, "book", s.Resources[0].Value)
	assert.Equal(t, "notes", s.Projects[0].Resources[0].Value)
}

func TestSubject_AssignMissingIDs_Deterministic(t *testing.T) {
	build := func() *Subject {
		return &Subject{
			ID:        "algebra-1",
			Resources: []Resource{{Type: ResourceText, Value: "book"}, {ID: "keep", Type: ResourceText, Value: "x"}},
			Projects:  []Project{{Name: "Proofs", Resources: []Resource{{Type: ResourceText, Value: "notes"}}}},
		}
	}
	a, b := build(), build()
	a.AssignMissingIDs()
	b.AssignMissingIDs()

	assert.NotEmpty(t, a.Resources[0].ID)
	assert.Equal(t, "keep", a.Resources[1].ID)
	assert.NotEmpty(t, a.Projects[0].ID)
	assert.NotEmpty(t, a.Projects[0].Resources[0].ID)
	assert.Equal(t, a, b)
}

func TestSubject_Readiness(t *testing.T) {
	s := &Subject{ID: "calculus", Prereq: []string{"algebra-1", "trig"}}

	assert.Equal(t, ReadinessBlocked, s.Readiness(ProgressMap{"algebra-1": ProgressComplete}))
	assert.Equal(t, ReadinessReady, s.Readiness(ProgressMap{"algebra-1": ProgressComplete, "trig": ProgressComplete}))
	assert.Equal(t, ReadinessInProgress, s.Readiness(ProgressMap{"calculus": ProgressPartial}))
	assert.Equal(t, ReadinessComplete, s.Readiness(ProgressMap{"calculus": ProgressComplete}))
	assert.Equal(t, ReadinessReady, (&Subject{ID: "intro"}).Readiness(nil))
}

func TestSubject_ProjectLookupAndRemoval(t *testing.T) {
	s := &Subject{ID: "algebra-1", Projects: []Project{{ID: "p1"}, {ID: "p2"}}}

	p, err := s.Project("p2")
	require.NoError(t, err)
	p.Name = "renamed"
	assert.Equal(t, "renamed", s.Projects[1].Name)

	require.NoError(t, s.RemoveProject("p1"))
	assert.Len(t, s.Projects, 1)
	assert.ErrorIs(t, s.RemoveProject("p1"), ErrProjectNotFound)
}

func TestNewResource(t *testing.T) {
	link, err := NewResource("Khan", "https://khanacademy.org")
	require.NoError(t, err)
	assert.Equal(t, ResourceLink, link.Type)
	assert.NoError(t, link.Validate())

	text, err := NewResource("Chapter 3", "")
	require.NoError(t, err)
	assert.Equal(t, ResourceText, text.Type)
	assert.Empty(t, text.URL)

	_, err = NewResource("  ", "https://x")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestNewProject_RequiresNameAndGoal(t *testing.T) {
	_, err := NewProject("", "goal", nil)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = NewProject("name", " ", nil)
	assert.ErrorIs(t, err, ErrInvalid)

	p, err := NewProject("Build a parser", "Understand grammars", nil)
	require.NoError(t, err)
	assert.Equal(t, ProjectNotStarted, p.Status)
	assert.NotNil(t, p.Resources)
	assert.NotEmpty(t, p.ID)
}

func TestProgressAndStatusCycles(t *testing.T) {
	assert.Equal(t, ProgressPartial, ProgressEmpty.Next())
	assert.Equal(t, ProgressComplete, ProgressPartial.Next())
	assert.Equal(t, ProgressEmpty, ProgressComplete.Next())

	assert.Equal(t, ProjectInProgress, ProjectNotStarted.Next())
	assert.Equal(t, ProjectCompleted, ProjectInProgress.Next())
	assert.Equal(t, ProjectNotStarted, ProjectCompleted.Next())
	assert.Equal(t, ProgressPartial, ProjectInProgress.Progress())
	assert.Equal(t, ProgressEmpty, ProjectStatus("bogus").Progress())
}
