package cli

import (
	"fmt"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/spf13/cobra"
)

func newThemeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				if err := app.Preferences.SetTheme(ctx, domain.Theme(args[0])); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Preferences.Theme(ctx))
			return nil
		},
	}
}

func newViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "view [dashboard|catalog]",
		Short:     "Show or set the view shown when polymath runs without a command",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.ViewDashboard), string(domain.ViewCatalog)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				if err := app.Preferences.SetView(ctx, domain.View(args[0])); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Preferences.View(ctx))
			return nil
		},
	}
}
