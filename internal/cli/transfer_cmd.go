package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/polymath/internal/exchange"
	"github.com/alexanderramin/polymath/internal/service"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all progress and edits as a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Transfer.ExportJSON(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all data with an exported JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading import file: %w", err)
			}

			res, err := app.Transfer.Import(ctx, data, yes)
			var mismatch *exchange.SchemaMismatchError
			if errors.As(err, &mismatch) {
				ok, perr := confirm(app, "Import anyway?", mismatch.Error())
				if perr != nil {
					return fmt.Errorf("%w (use --yes)", err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled.")
					return nil
				}
				res, err = app.Transfer.Import(ctx, data, true)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Imported schema %s: %d subjects (%d custom), %d catalog edits, %d with progress\n",
				res.Schema, res.Subjects, res.CustomSubjects, res.Overlays, res.Tracked)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept a document from another schema version")

	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	var phrase string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all progress, edits and custom subjects",
		Long:  fmt.Sprintf("Erase all progress, edits and custom subjects. Type %q to confirm.", service.ResetPhrase),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("confirm") {
				if app.Prompter == nil {
					return fmt.Errorf("%w: pass --confirm %s", service.ErrResetPhrase, service.ResetPhrase)
				}
				var err error
				phrase, err = app.Prompter.Input(fmt.Sprintf("Type %s to erase everything", service.ResetPhrase), false)
				if err != nil {
					return err
				}
			}
			if err := app.Transfer.Reset(cmd.Context(), phrase); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data reset.")
			return nil
		},
	}

	cmd.Flags().StringVar(&phrase, "confirm", "", "Confirmation phrase")

	return cmd
}
