package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"shiftclose/internal/bootstrap"
	"shiftclose/internal/bootstrap/logging"
	"shiftclose/internal/errs"
	"shiftclose/internal/usecase/shift"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage roles, wages and export settings",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.toml>",
	Short: "Upsert roles and person wage overrides from a TOML catalog",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *shift.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		catalog, err := shift.LoadCatalogFile(cmd.Flags().Arg(0))
		if err != nil {
			return err
		}

		result, err := svc.ImportCatalog(ctx, catalog)
		if err != nil {
			logging.Error(ctx, "import catalog failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "import catalog")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"catalog imported: roles=%d people=%d folder_prefix=%q\n",
			result.Roles,
			result.People,
			result.FolderPrefix,
		); err != nil {
			return errs.Wrap(err, "write catalog output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogImportCmd)
}
