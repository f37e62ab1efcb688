package cli

import (
	"github.com/alexanderramin/polymath/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Subjects    service.SubjectService
	Projects    service.ProjectService
	Progress    service.ProgressService
	Transfer    service.TransferService
	Session     service.SessionService
	Preferences service.PreferenceService

	// Prompter asks for confirmation and secrets. Nil disables prompts,
	// so commands that need one require the matching flag instead.
	Prompter Prompter
}

// NewRootCmd creates the top-level "polymath" command and registers all
// subcommands against the provided App. Without a subcommand it shows the
// user's preferred view.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "polymath",
		Short:         "Track progress through a curriculum of subjects",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefaultView(cmd, app)
		},
	}

	root.AddCommand(
		newDashboardCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newSubjectCmd(app),
		newResourceCmd(app),
		newProjectCmd(app),
		newProgressCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newResetCmd(app),
		newAuthCmd(app),
		newSyncCmd(app),
		newThemeCmd(app),
		newViewCmd(app),
	)

	return root
}
