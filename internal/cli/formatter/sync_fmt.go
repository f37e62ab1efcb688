package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/service"
)

// FormatSyncStatus renders the sign-in state, the sync state and recent
// sync history.
func FormatSyncStatus(st *service.SyncStatus, now time.Time) string {
	if !st.Enabled {
		return "Remote sync is off. Set " + Bold("owner") + " in the config to enable it."
	}

	var b strings.Builder
	user := Dim("not signed in")
	if st.Username != "" {
		user = st.Username
	}
	mode := StyleGreen.Render("owner")
	if st.Mode == domain.ViewPublic {
		mode = StyleYellow.Render("view only")
	}
	fmt.Fprintf(&b, "Repository owner: %s\n", st.Owner)
	fmt.Fprintf(&b, "Signed in as:     %s (%s)\n", user, mode)
	fmt.Fprintf(&b, "Sync:             %s %s\n", SyncStateBadge(st.State), Dim(st.Message))
	fmt.Fprintf(&b, "Last fetch:       %s\n", HumanTimestamp(st.LastFetch, now))
	fmt.Fprintf(&b, "Last push:        %s\n", HumanTimestamp(st.LastPush, now))

	auto := Dim("off")
	if st.AutoSync {
		auto = StyleGreen.Render("on")
	}
	fmt.Fprintf(&b, "Auto-sync:        %s\n", auto)
	if st.Dirty {
		b.WriteString(StyleYellow.Render("Local changes not yet pushed.") + "\n")
	}

	if len(st.History) > 0 {
		rows := make([][]string, 0, len(st.History))
		for _, r := range st.History {
			rows = append(rows, []string{
				HumanTimestamp(r.FinishedAt, now),
				string(r.Direction),
				SyncStateBadge(r.State),
				r.Message,
			})
		}
		b.WriteString("\n" + RenderTable([]string{"WHEN", "DIRECTION", "RESULT", "MESSAGE"}, rows))
	}
	return strings.TrimRight(b.String(), "\n")
}
