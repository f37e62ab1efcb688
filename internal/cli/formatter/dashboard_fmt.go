package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/service"
)

const dashboardBarWidth = 20

// FormatDashboard renders per-tier completion plus the current and
// completed subject lists.
func FormatDashboard(d *service.Dashboard, mode domain.ViewMode) string {
	var b strings.Builder

	title := "Polymath"
	if mode == domain.ViewPublic {
		title += " " + Dim("(view only)")
	}
	b.WriteString(Bold(title) + "\n")
	b.WriteString(RenderFraction(d.Done, d.Total, dashboardBarWidth) + "\n\n")

	rows := make([][]string, 0, len(d.Tiers))
	for _, t := range d.Tiers {
		name := t.Name
		if t.Custom {
			name += " " + StylePurple.Render("(custom)")
		}
		rows = append(rows, []string{name, t.Category, RenderFraction(t.Done, t.Total, 10)})
	}
	b.WriteString(RenderTable([]string{"TIER", "CATEGORY", "PROGRESS"}, rows))

	b.WriteString("\n" + Header("Currently studying") + "\n")
	b.WriteString(refLines(d.Current, "Nothing in progress."))
	b.WriteString("\n" + Header("Completed") + "\n")
	b.WriteString(refLines(d.Completed, "Nothing completed yet."))
	return strings.TrimRight(b.String(), "\n")
}

func refLines(refs []domain.SubjectRef, empty string) string {
	if len(refs) == 0 {
		return Dim(empty) + "\n"
	}
	var b strings.Builder
	for _, r := range refs {
		fmt.Fprintf(&b, "• %s %s\n", r.Name, Dim("("+r.ID+")"))
	}
	return b.String()
}
