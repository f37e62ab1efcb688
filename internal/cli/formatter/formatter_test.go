package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/filter"
	"github.com/alexanderramin/polymath/internal/remotesync"
	"github.com/alexanderramin/polymath/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	assert.Contains(t, RenderProgress(0.5, 10), "50%")
	assert.Contains(t, RenderProgress(0.5, 10), strings.Repeat(filledBlock, 5)+strings.Repeat(emptyBlock, 5))
	assert.Contains(t, RenderProgress(1.7, 4), "100%", "clamped above")
	assert.Contains(t, RenderProgress(-1, 4), "0%", "clamped below")
}

func TestRenderFraction_EmptyTierIsZero(t *testing.T) {
	got := RenderFraction(0, 0, 10)
	assert.True(t, strings.HasPrefix(got, "0/0 completed"))
	assert.Contains(t, got, "0%")
	assert.Contains(t, RenderFraction(2, 3, 10), "2/3 completed")
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Time{}, "never"},
		{now.Add(-20 * time.Second), "Just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.AddDate(0, 0, -3), "Mar 7, 2026"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, HumanTimestamp(tc.in, now))
	}
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := RenderTable([]string{"ID", "STATUS"}, [][]string{
		{"algebra-1", ReadinessBadge(domain.ReadinessReady)},
		{"pi", ReadinessBadge(domain.ReadinessBlocked)},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)

	col := strings.Index(lines[2], "ready")
	assert.Positive(t, col)
	assert.Equal(t, lipgloss.Width(lines[2][:col]), lipgloss.Width(lines[3][:strings.Index(lines[3], "blocked")]))
}

func TestFormatSubjectList(t *testing.T) {
	assert.Contains(t, FormatSubjectList(nil), "No subjects match")

	tier := &domain.Tier{Category: "math", Order: 1}
	out := FormatSubjectList([]filter.Match{
		{TierName: "Foundations", Tier: tier, Subject: &domain.Subject{ID: "arithmetic", Name: "Arithmetic"}, Progress: domain.ProgressComplete, Readiness: domain.ReadinessComplete},
		{TierName: "Foundations", Tier: tier, Subject: &domain.Subject{ID: "logic", Name: "Logic", IsCustom: true}, Readiness: domain.ReadinessReady},
	})
	assert.Equal(t, 1, strings.Count(out, "FOUNDATIONS"), "one header per tier")
	assert.Contains(t, out, "arithmetic")
	assert.Contains(t, out, "Logic (custom)")
	assert.Contains(t, out, "complete")
}

func TestFormatSubjectDetail(t *testing.T) {
	out := FormatSubjectDetail(&service.SubjectDetail{
		TierName: "Sciences",
		Tier:     &domain.Tier{Category: "science", Order: 2},
		Subject: &domain.Subject{
			ID: "physics", Name: "Physics", Prereq: []string{"algebra-1"},
			Resources: []domain.Resource{{ID: "r1", Type: domain.ResourceLink, Value: "Feynman", URL: "https://feynmanlectures.caltech.edu"}},
			Projects:  []domain.Project{{ID: "p1", Name: "Pendulum", Goal: "Measure g", Status: domain.ProjectInProgress}},
		},
		Progress:   domain.ProgressPartial,
		Readiness:  domain.ReadinessInProgress,
		Dependents: []domain.SubjectRef{{ID: "optics", Name: "Optics"}},
	})
	assert.Contains(t, out, "Sciences · science")
	assert.Contains(t, out, "algebra-1")
	assert.Contains(t, out, "Needed by:  optics")
	assert.Contains(t, out, "<https://feynmanlectures.caltech.edu>")
	assert.Contains(t, out, "Pendulum")
	assert.Contains(t, out, "In Progress")
	assert.NotContains(t, out, "NOTES")
}

func TestFormatDashboard(t *testing.T) {
	d := &service.Dashboard{
		Tiers: []service.TierSummary{
			{Name: "Foundations", Category: "math", Done: 1, Total: 2},
			{Name: "Advanced Math", Category: domain.CustomCategory, Custom: true, Total: 1},
		},
		Done:    1,
		Total:   3,
		Current: []domain.SubjectRef{{ID: "physics", Name: "Physics"}},
	}
	out := FormatDashboard(d, domain.ViewPublic)
	assert.Contains(t, out, "view only")
	assert.Contains(t, out, "1/3 completed")
	assert.Contains(t, out, "Physics (physics)")
	assert.Contains(t, out, "Nothing completed yet.")
	assert.Contains(t, out, "Advanced Math (custom)")

	assert.NotContains(t, FormatDashboard(d, domain.ViewOwner), "view only")
}

func TestFormatSyncStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Contains(t, FormatSyncStatus(&service.SyncStatus{}, now), "Remote sync is off")

	out := FormatSyncStatus(&service.SyncStatus{
		Enabled:  true,
		Owner:    "ada",
		Username: "grace",
		Mode:     domain.ViewPublic,
		Dirty:    true,
		Status:   remotesync.Status{State: domain.SyncError, Message: "remote changed", LastPush: now.Add(-2 * time.Minute)},
		History: []*domain.SyncRecord{
			{Direction: domain.SyncPush, State: domain.SyncError, Message: "remote changed", FinishedAt: now.Add(-2 * time.Minute)},
		},
	}, now)
	assert.Contains(t, out, "grace (view only)")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "Last fetch:       never")
	assert.Contains(t, out, "2m ago")
	assert.Contains(t, out, "not yet pushed")
	assert.Contains(t, out, "push")
}
