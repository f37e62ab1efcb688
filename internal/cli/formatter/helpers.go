package formatter

import (
	"fmt"
	"strings"
	"time"
)

// HumanTimestamp renders t relative to now: "Just now", "5m ago", "3h ago",
// otherwise a calendar date. The zero time renders as "never".
func HumanTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// OrDash returns s, or a dimmed dash when s is empty.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return StyleDim.Render("--")
	}
	return s
}

// IDList joins subject ids, or a dimmed dash when there are none.
func IDList(ids []string) string {
	return OrDash(strings.Join(ids, ", "))
}
