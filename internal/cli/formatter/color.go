package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ProgressIndicator renders a subject's progress as a marker and a label.
func ProgressIndicator(p domain.Progress) string {
	switch p {
	case domain.ProgressComplete:
		return StyleGreen.Render("✔ complete")
	case domain.ProgressPartial:
		return StyleYellow.Render("◐ partial")
	default:
		return StyleDim.Render("○ empty")
	}
}

// ReadinessBadge colors a readiness value.
func ReadinessBadge(r domain.Readiness) string {
	switch r {
	case domain.ReadinessComplete:
		return StyleGreen.Render(string(r))
	case domain.ReadinessInProgress:
		return StyleYellow.Render(string(r))
	case domain.ReadinessReady:
		return StyleBlue.Render(string(r))
	case domain.ReadinessBlocked:
		return StyleRed.Render(string(r))
	default:
		return StyleDim.Render(string(r))
	}
}

// ProjectStatusPill returns a colored indicator for a project status.
func ProjectStatusPill(s domain.ProjectStatus) string {
	switch s {
	case domain.ProjectCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.ProjectInProgress:
		return StyleYellow.Render("● In Progress")
	case domain.ProjectNotStarted:
		return StyleBlue.Render("○ Not Started")
	default:
		return StyleDim.Render(string(s))
	}
}

// SyncStateBadge colors a remote sync state.
func SyncStateBadge(s domain.SyncState) string {
	switch s {
	case domain.SyncSynced:
		return StyleGreen.Render("● synced")
	case domain.SyncSyncing:
		return StyleYellow.Render("◌ syncing")
	case domain.SyncError:
		return StyleRed.Render("✖ error")
	default:
		return StyleDim.Render("○ idle")
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
