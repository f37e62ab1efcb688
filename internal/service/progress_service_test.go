package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressService_Cycle(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	progress := f.tracker.Progress()

	want := []domain.Progress{domain.ProgressPartial, domain.ProgressComplete, domain.ProgressEmpty}
	for _, w := range want {
		got, err := progress.Cycle(ctx, "arithmetic")
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}

	_, err := progress.Cycle(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrSubjectNotFound)
}

func TestProgressService_Set_Validation(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.tracker.Progress().Set(ctx, "arithmetic", "done"), domain.ErrInvalid)
	assert.ErrorIs(t, f.tracker.Progress().Set(ctx, "nope", domain.ProgressComplete), domain.ErrSubjectNotFound)
	_, err := f.tracker.Progress().Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrSubjectNotFound)
}

func TestProgressService_ReadinessFollowsPrereqs(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	physics, err := f.tracker.Subjects().Get(ctx, "physics")
	require.NoError(t, err)
	assert.Equal(t, domain.ReadinessBlocked, physics.Readiness)

	require.NoError(t, f.tracker.Progress().Set(ctx, "algebra-1", domain.ProgressComplete))
	physics, err = f.tracker.Subjects().Get(ctx, "physics")
	require.NoError(t, err)
	assert.Equal(t, domain.ReadinessReady, physics.Readiness)
}

func TestProgressService_Dashboard(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	progress := f.tracker.Progress()

	require.NoError(t, progress.Set(ctx, "arithmetic", domain.ProgressComplete))
	require.NoError(t, progress.Set(ctx, "physics", domain.ProgressPartial))
	_, err := f.tracker.Subjects().Create(ctx, NewSubject{Name: "Category Theory", Tier: "Advanced Math"})
	require.NoError(t, err)

	d := progress.Dashboard(ctx)
	assert.Equal(t, []TierSummary{
		{Name: "Foundations", Category: "math", Done: 1, Total: 2},
		{Name: "Sciences", Category: "science", Done: 0, Total: 1},
		{Name: "Advanced Math", Category: domain.CustomCategory, Custom: true, Done: 0, Total: 1},
	}, d.Tiers)
	assert.Equal(t, 1, d.Done)
	assert.Equal(t, 4, d.Total)
	assert.Equal(t, []domain.SubjectRef{{ID: "physics", Name: "Physics"}}, d.Current)
	assert.Equal(t, []domain.SubjectRef{{ID: "arithmetic", Name: "Arithmetic"}}, d.Completed)
}
