package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"shiftclose/internal/bootstrap"
	"shiftclose/internal/bootstrap/logging"
	"shiftclose/internal/errs"
	"shiftclose/internal/usecase/shift"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Manage uploaded receipt scans",
}

var scanAddCmd = &cobra.Command{
	Use:   "add <event-id> <file>",
	Short: "Copy a scan into the event's upload folder and register it",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *shift.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		eventID, err := parseEventID(cmd.Flags().Arg(0))
		if err != nil {
			return err
		}
		srcFile := cmd.Flags().Arg(1)
		data, err := os.ReadFile(srcFile)
		if err != nil {
			return errs.Wrapf(err, "read scan %q", srcFile)
		}
		label, _ := cmd.Flags().GetString("label")

		doc, err := svc.RegisterScan(ctx, shift.RegisterScanInput{
			EventID:  eventID,
			FileName: filepath.Base(srcFile),
			Data:     data,
			Label:    label,
		})
		if err != nil {
			logging.Error(ctx, "register scan failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "register scan")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "registered scan: document=%d path=%s\n", doc.DocumentID, doc.FilePath); err != nil {
			return errs.Wrap(err, "write scan output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.AddCommand(scanAddCmd)
	scanAddCmd.Flags().String("label", "", "Scan name used for grouping (e.g. Cashier)")
}
