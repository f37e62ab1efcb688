package cli

import (
	"fmt"

	"github.com/alexanderramin/polymath/internal/cli/formatter"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects attached to subjects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectEditCmd(app),
		newProjectRemoveCmd(app),
		newProjectStatusCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var goal string

	cmd := &cobra.Command{
		Use:     "add SUBJECT NAME",
		Short:   "Add a project to a subject",
		Example: `  polymath project add physics "Pendulum clock" --goal "Measure g to 1%"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := resolveSubjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Add(cmd.Context(), subjectID, service.NewProject{Name: args[1], Goal: goal})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added project %s %s to %s\n",
				formatter.Bold(p.Name), formatter.Dim("("+formatter.TruncID(p.ID)+")"), subjectID)
			return nil
		},
	}

	cmd.Flags().StringVar(&goal, "goal", "", "What finishing the project means")
	_ = cmd.MarkFlagRequired("goal")

	return cmd
}

func newProjectEditCmd(app *App) *cobra.Command {
	var name, goal, notepad string

	cmd := &cobra.Command{
		Use:   "edit SUBJECT PROJECT",
		Short: "Edit a project's name, goal or notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			subjectID, err := resolveSubjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := resolveProjectID(ctx, app, subjectID, args[1])
			if err != nil {
				return err
			}

			var up service.ProjectUpdate
			if cmd.Flags().Changed("name") {
				up.Name = &name
			}
			if cmd.Flags().Changed("goal") {
				up.Goal = &goal
			}
			if cmd.Flags().Changed("notes") {
				up.Notepad = &notepad
			}
			if up.Name == nil && up.Goal == nil && up.Notepad == nil {
				return fmt.Errorf("nothing to change: pass --name, --goal or --notes")
			}

			if err := app.Projects.Update(ctx, subjectID, p.ID, up); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", formatter.TruncID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&goal, "goal", "", "New goal")
	cmd.Flags().StringVar(&notepad, "notes", "", "New notes")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm SUBJECT PROJECT",
		Aliases: []string{"remove"},
		Short:   "Remove a project",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			subjectID, err := resolveSubjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := resolveProjectID(ctx, app, subjectID, args[1])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, subjectID, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", p.Name)
			return nil
		},
	}
}

func newProjectStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status SUBJECT PROJECT [not-started|in-progress|completed]",
		Short: "Set a project's status, or advance it when no status is given",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			subjectID, err := resolveSubjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := resolveProjectID(ctx, app, subjectID, args[1])
			if err != nil {
				return err
			}

			var status domain.ProjectStatus
			if len(args) == 3 {
				status = domain.ProjectStatus(args[2])
				err = app.Projects.SetStatus(ctx, subjectID, p.ID, status)
			} else {
				status, err = app.Projects.CycleStatus(ctx, subjectID, p.ID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", p.Name, formatter.ProjectStatusPill(status))
			return nil
		},
	}
}
