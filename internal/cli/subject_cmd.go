package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/polymath/internal/cli/formatter"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/filter"
	"github.com/alexanderramin/polymath/internal/service"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var c filter.Criteria

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List subjects grouped by tier",
		Example: `  polymath list --status in-progress
  polymath list --category math --search algebra
  polymath list --where 'readiness == "ready" && len(prereq) > 0'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := app.Subjects.List(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSubjectList(matches))
			return nil
		},
	}

	cmd.Flags().StringVar(&c.Status, "status", "", "Filter by status (not-started, in-progress, completed)")
	cmd.Flags().StringVar(&c.Category, "category", "", "Filter by tier category")
	cmd.Flags().StringVarP(&c.Search, "search", "s", "", "Case-insensitive text search over id, name, summary, goal and tier")
	cmd.Flags().StringVar(&c.Where, "where", "", "Filter expression over subject fields")

	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show SUBJECT",
		Short: "Show a subject with its resources and projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSubjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			detail, err := app.Subjects.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSubjectDetail(detail))
			return nil
		},
	}
}

func newSubjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects",
	}

	cmd.AddCommand(
		newSubjectAddCmd(app),
		newSubjectEditCmd(app),
		newSubjectRemoveCmd(app),
		newSubjectDepsCmd(app),
		newSubjectSuggestCmd(app),
	)

	return cmd
}

func newSubjectAddCmd(app *App) *cobra.Command {
	var in service.NewSubject
	var prereq, coreq, soft string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a custom subject",
		Example: `  polymath subject add "Category Theory" --tier "Advanced Math" --prereq algebra-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			in.Prereq = service.SplitIDs(prereq)
			in.Coreq = service.SplitIDs(coreq)
			in.Soft = service.SplitIDs(soft)

			s, err := app.Subjects.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s to %s\n",
				formatter.Bold(s.Name), formatter.Dim("("+s.ID+")"), in.Tier)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Tier, "tier", "", "Tier name (new tiers are created as custom)")
	cmd.Flags().StringVar(&in.Summary, "summary", "", "One-line summary")
	cmd.Flags().StringVar(&in.Goal, "goal", "", "Personal goal")
	cmd.Flags().StringVar(&prereq, "prereq", "", "Comma-separated prerequisite IDs")
	cmd.Flags().StringVar(&coreq, "coreq", "", "Comma-separated corequisite IDs")
	cmd.Flags().StringVar(&soft, "soft", "", "Comma-separated background subject IDs")
	_ = cmd.MarkFlagRequired("tier")

	return cmd
}

func newSubjectEditCmd(app *App) *cobra.Command {
	var summary, goal, notepad string

	cmd := &cobra.Command{
		Use:   "edit SUBJECT",
		Short: "Edit a subject's goal, notes or summary",
		Long:  "Edit a subject. Only flags that are given change; an empty value clears the field. The summary is editable on custom subjects only.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSubjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			var up service.SubjectUpdate
			if cmd.Flags().Changed("summary") {
				up.Summary = &summary
			}
			if cmd.Flags().Changed("goal") {
				up.Goal = &goal
			}
			if cmd.Flags().Changed("notes") {
				up.Notepad = &notepad
			}
			if up.Summary == nil && up.Goal == nil && up.Notepad == nil {
				return fmt.Errorf("nothing to change: pass --summary, --goal or --notes")
			}

			if err := app.Subjects.Update(cmd.Context(), id, up); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&summary, "summary", "", "New summary (custom subjects only)")
	cmd.Flags().StringVar(&goal, "goal", "", "New goal")
	cmd.Flags().StringVar(&notepad, "notes", "", "New notes")

	return cmd
}

func newSubjectRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "rm SUBJECT",
		Aliases: []string{"remove"},
		Short:   "Remove a custom subject",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSubjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			err = app.Subjects.Delete(ctx, id, force)
			var depErr *service.DependentsError
			if errors.As(err, &depErr) {
				ok, perr := confirm(app,
					fmt.Sprintf("Remove %s anyway?", id),
					fmt.Sprintf("Needed by: %s", refIDs(depErr.Dependents)))
				if perr != nil {
					return fmt.Errorf("%w (use --force)", err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				err = app.Subjects.Delete(ctx, id, true)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even when other subjects depend on it")

	return cmd
}

func newSubjectDepsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deps SUBJECT",
		Short: "List subjects that depend on a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSubjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			deps, err := app.Subjects.Dependents(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(deps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No subjects depend on "+id+"."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRefs(deps))
			return nil
		},
	}
}

func newSubjectSuggestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest INPUT",
		Short: "Suggest subject IDs for the last term of a comma-separated list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := app.Subjects.Suggest(cmd.Context(), args[0])
			if len(refs) == 0 {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRefs(refs))
			return nil
		},
	}
}

func refIDs(refs []domain.SubjectRef) string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return strings.Join(ids, ", ")
}
