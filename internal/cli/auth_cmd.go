package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/polymath/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to GitHub to sync progress",
	}

	cmd.AddCommand(
		newAuthLoginCmd(app),
		newAuthLogoutCmd(app),
		newAuthStatusCmd(app),
	)

	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a GitHub personal access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("token") {
				if app.Prompter == nil {
					return fmt.Errorf("a token is required: pass --token")
				}
				var err error
				token, err = app.Prompter.Input("GitHub personal access token", true)
				if err != nil {
					return err
				}
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("a token is required")
			}

			res, err := app.Session.Login(cmd.Context(), token)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed in as %s\n", formatter.Bold(res.Username))
			if res.Message != "" {
				fmt.Fprintln(out, formatter.StyleYellow.Render(res.Message))
			}
			if res.Pulled {
				fmt.Fprintln(out, "Loaded progress from GitHub.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "GitHub personal access token")

	return cmd
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is signed in and the sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Session.SyncStatus(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSyncStatus(st, time.Now()))
			return nil
		},
	}
}
