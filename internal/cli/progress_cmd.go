package cli

import (
	"fmt"

	"github.com/alexanderramin/polymath/internal/cli/formatter"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/filter"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show completion per tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, app)
		},
	}
}

func runDashboard(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	d := app.Progress.Dashboard(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDashboard(d, app.Session.ViewMode(ctx)))
	return nil
}

// runDefaultView shows the view the user last chose.
func runDefaultView(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	if app.Preferences.View(ctx) == domain.ViewCatalog {
		matches, err := app.Subjects.List(ctx, filter.Criteria{})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSubjectList(matches))
		return nil
	}
	return runDashboard(cmd, app)
}

func newProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress SUBJECT [empty|partial|complete]",
		Short: "Set a subject's progress, or advance it when no value is given",
		Example: `  polymath progress algebra-1           # empty -> partial -> complete -> empty
  polymath progress algebra-1 complete`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSubjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var p domain.Progress
			if len(args) == 2 {
				p = domain.Progress(args[1])
				err = app.Progress.Set(ctx, id, p)
			} else {
				p, err = app.Progress.Cycle(ctx, id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", id, formatter.ProgressIndicator(p))
			return nil
		},
	}
}
