package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"shiftclose/internal/bootstrap"
	"shiftclose/internal/bootstrap/logging"
	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/usecase/shift"
)

var shiftCmd = &cobra.Command{
	Use:   "shift",
	Short: "Close shifts: book payroll and export section PDFs",
}

var shiftFinishCmd = newCloseCommand(
	"finish",
	"Book payroll for a checked event and mark it finished",
	domainshift.StrategyFinish,
)

var shiftExportCmd = newCloseCommand(
	"export",
	"Build the consolidated section PDFs into the event folder",
	domainshift.StrategyExport,
)

var shiftCloseCmd = newCloseCommand(
	"close",
	"Export section PDFs, then book payroll (closed or checked events)",
	domainshift.StrategyLegacyClose,
)

var shiftTimesheetCmd = &cobra.Command{
	Use:   "timesheet <event-id>",
	Short: "Write the event's time entries to an xlsx timesheet",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *shift.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		eventID, err := parseEventID(cmd.Flags().Arg(0))
		if err != nil {
			return err
		}

		result, err := svc.ExportTimesheet(ctx, eventID)
		if err != nil {
			logging.Error(ctx, "export timesheet failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "export timesheet")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "timesheet written: %s entries=%d\n", result.Path, result.Entries); err != nil {
			return errs.Wrap(err, "write timesheet output")
		}
		return nil
	}),
}

func newCloseCommand(use string, short string, strategy domainshift.CloseStrategy) *cobra.Command {
	command := &cobra.Command{
		Use:   use + " [event-id]",
		Short: short,
		Args:  exactlyOneEventArg,
		RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *shift.Service) error {
			ctx := logging.WithAttrs(
				cmd.Context(),
				slog.String("command", cmd.CommandPath()),
				slog.String("strategy", string(strategy)),
			)

			eventID, err := resolveTargetEvent(ctx, cmd, svc)
			if err != nil {
				return err
			}
			formData, err := readFormFile(cmd)
			if err != nil {
				return err
			}

			result, err := svc.Close(ctx, shift.CloseInput{
				EventID:  eventID,
				FormData: formData,
				Strategy: strategy,
			})
			if err != nil {
				logging.Error(ctx, "close shift failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrapf(err, "%s event %d", strategy, eventID)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		}),
	}
	command.Flags().Bool("current", false, "Use the venue's current event")
	command.Flags().String("form", "", "Form submission JSON file (- for stdin); empty uses the stored form")
	return command
}

func resolveTargetEvent(ctx context.Context, cmd *cobra.Command, svc *shift.Service) (uint64, error) {
	useCurrent, _ := cmd.Flags().GetBool("current")
	if !useCurrent {
		return parseEventID(cmd.Flags().Arg(0))
	}

	event, err := svc.CurrentEvent(ctx)
	if err != nil {
		return 0, errs.Wrap(err, "resolve current event")
	}
	return event.EventID, nil
}

func init() {
	rootCmd.AddCommand(shiftCmd)
	shiftCmd.AddCommand(shiftFinishCmd)
	shiftCmd.AddCommand(shiftExportCmd)
	shiftCmd.AddCommand(shiftCloseCmd)
	shiftCmd.AddCommand(shiftTimesheetCmd)
}
