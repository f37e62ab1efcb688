package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/filter"
	"github.com/alexanderramin/polymath/internal/service"
)

// FormatSubjectList renders filter matches grouped by tier.
func FormatSubjectList(matches []filter.Match) string {
	if len(matches) == 0 {
		return Dim("No subjects match.")
	}

	var b strings.Builder
	var rows [][]string
	tier := ""
	flush := func() {
		if len(rows) > 0 {
			b.WriteString(RenderTable([]string{"ID", "NAME", "PROGRESS", "STATUS"}, rows))
			b.WriteString("\n")
			rows = nil
		}
	}
	for _, m := range matches {
		if m.TierName != tier {
			flush()
			tier = m.TierName
			b.WriteString(Header(tierLabel(m.TierName, m.Tier)) + "\n")
		}
		name := m.Subject.Name
		if m.Subject.IsCustom {
			name += " " + StylePurple.Render("(custom)")
		}
		rows = append(rows, []string{m.Subject.ID, name, ProgressIndicator(m.Progress), ReadinessBadge(m.Readiness)})
	}
	flush()
	return strings.TrimRight(b.String(), "\n")
}

func tierLabel(name string, t *domain.Tier) string {
	if t == nil || t.Category == "" {
		return name
	}
	return fmt.Sprintf("%s · %s", name, t.Category)
}

// FormatSubjectDetail renders one subject with its resources and projects.
func FormatSubjectDetail(d *service.SubjectDetail) string {
	s := d.Subject
	var b strings.Builder

	kind := "catalog"
	if s.IsCustom {
		kind = StylePurple.Render("custom")
	}
	fmt.Fprintf(&b, "%s %s\n", Bold(s.Name), Dim("("+s.ID+")"))
	fmt.Fprintf(&b, "Tier:       %s [%s]\n", tierLabel(d.TierName, d.Tier), kind)
	fmt.Fprintf(&b, "Progress:   %s\n", ProgressIndicator(d.Progress))
	fmt.Fprintf(&b, "Status:     %s\n", ReadinessBadge(d.Readiness))
	fmt.Fprintf(&b, "Summary:    %s\n", OrDash(s.Summary))
	fmt.Fprintf(&b, "Goal:       %s\n", OrDash(s.Goal))
	fmt.Fprintf(&b, "Prereqs:    %s\n", IDList(s.Prereq))
	fmt.Fprintf(&b, "Coreqs:     %s\n", IDList(s.Coreq))
	fmt.Fprintf(&b, "Background: %s\n", IDList(s.Soft))

	dependents := make([]string, len(d.Dependents))
	for i, ref := range d.Dependents {
		dependents[i] = ref.ID
	}
	fmt.Fprintf(&b, "Needed by:  %s\n", IDList(dependents))

	if len(s.Resources) > 0 {
		b.WriteString("\n" + Header("Resources") + "\n")
		b.WriteString(FormatResources(s.Resources, ""))
	}
	if len(s.Projects) > 0 {
		b.WriteString("\n" + Header("Projects") + "\n")
		for _, p := range s.Projects {
			fmt.Fprintf(&b, "%s  %s  %s\n", TruncID(p.ID), Bold(p.Name), ProjectStatusPill(p.Status))
			fmt.Fprintf(&b, "    %s\n", p.Goal)
			b.WriteString(FormatResources(p.Resources, "    "))
			if p.Notepad != "" {
				fmt.Fprintf(&b, "    %s %s\n", Dim("notes:"), p.Notepad)
			}
		}
	}
	if s.Notepad != "" {
		b.WriteString("\n" + Header("Notes") + "\n" + s.Notepad + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatResources lists resources one per line with their ids.
func FormatResources(rs []domain.Resource, indent string) string {
	var b strings.Builder
	for _, r := range rs {
		line := r.Value
		if r.Type == domain.ResourceLink {
			line += " " + StyleBlue.Render("<"+r.URL+">")
		}
		fmt.Fprintf(&b, "%s%s  %s\n", indent, TruncID(r.ID), line)
	}
	return b.String()
}

// FormatRefs renders id/name pairs, one per line.
func FormatRefs(refs []domain.SubjectRef) string {
	lines := make([]string, len(refs))
	for i, r := range refs {
		lines[i] = fmt.Sprintf("%s  %s", r.ID, Dim(r.Name))
	}
	return strings.Join(lines, "\n")
}
