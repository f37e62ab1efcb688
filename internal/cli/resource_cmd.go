package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResourceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Manage learning resources on subjects and projects",
	}

	cmd.AddCommand(
		newResourceAddCmd(app),
		newResourceRemoveCmd(app),
	)

	return cmd
}

func newResourceAddCmd(app *App) *cobra.Command {
	var url, project string

	cmd := &cobra.Command{
		Use:   "add SUBJECT TEXT",
		Short: "Add a resource; with --url it becomes a link",
		Example: `  polymath resource add algebra-1 "Khan Academy" --url https://www.khanacademy.org/math/algebra
  polymath resource add physics "Feynman vol. 1" --project pendulum`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			subjectID, err := resolveSubjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if project == "" {
				r, err := app.Subjects.AddResource(ctx, subjectID, args[1], url)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added resource %s to %s\n", r.ID, subjectID)
				return nil
			}

			p, err := resolveProjectID(ctx, app, subjectID, project)
			if err != nil {
				return err
			}
			r, err := app.Projects.AddResource(ctx, subjectID, p.ID, args[1], url)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added resource %s to project %s\n", r.ID, p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Link target")
	cmd.Flags().StringVar(&project, "project", "", "Attach to this project instead of the subject")

	return cmd
}

func newResourceRemoveCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:     "rm SUBJECT RESOURCE",
		Aliases: []string{"remove"},
		Short:   "Remove a resource by ID or ID prefix",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			subjectID, err := resolveSubjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if project == "" {
				detail, err := app.Subjects.Get(ctx, subjectID)
				if err != nil {
					return err
				}
				id, err := resolveByPrefix("resource", args[1], resourceIDs(detail.Subject.Resources))
				if err != nil {
					return err
				}
				if err := app.Subjects.RemoveResource(ctx, subjectID, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed resource %s\n", id)
				return nil
			}

			p, err := resolveProjectID(ctx, app, subjectID, project)
			if err != nil {
				return err
			}
			id, err := resolveByPrefix("resource", args[1], resourceIDs(p.Resources))
			if err != nil {
				return err
			}
			if err := app.Projects.RemoveResource(ctx, subjectID, p.ID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed resource %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Remove from this project")

	return cmd
}
