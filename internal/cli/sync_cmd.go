package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/polymath/internal/cli/formatter"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync progress with the GitHub repository",
	}

	cmd.AddCommand(
		newSyncPullCmd(app),
		newSyncPushCmd(app),
		newSyncStatusCmd(app),
		newSyncAutoCmd(app),
	)

	return cmd
}

func newSyncPullCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace local data with the copy on GitHub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Session.Pull(cmd.Context())
			if err != nil {
				return err
			}
			if !res.Found {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing on GitHub yet.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pulled schema %s, last modified %s\n",
				res.Schema, formatter.HumanTimestamp(res.LastModified, time.Now()))
			return nil
		},
	}
}

func newSyncPushCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload local data to GitHub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Push(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Pushed.")
			return nil
		},
	}
}

func newSyncStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync state and recent history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Session.SyncStatus(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSyncStatus(st, time.Now()))
			return nil
		},
	}
}

func newSyncAutoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "auto",
		Short: "Push unsynced edits on an interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Session.StartAutoSync(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Auto-sync running. Press Ctrl-C to stop.")
			<-ctx.Done()
			app.Session.StopAutoSync()

			// Flush what the last tick missed, unless a rejected
			// credential signed the user out meanwhile.
			if st := app.Session.SyncStatus(context.WithoutCancel(ctx)); st.Dirty && st.Mode == domain.ViewOwner {
				pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
				defer cancel()
				if err := app.Session.Push(pushCtx); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Auto-sync stopped.")
			return nil
		},
	}
}
