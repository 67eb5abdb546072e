package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shiftclose/internal/bootstrap"
	"shiftclose/internal/bootstrap/logging"
	"shiftclose/internal/errs"
	"shiftclose/internal/usecase/shift"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage events and their lifecycle status",
}

var eventCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the venue's current event",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *shift.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		name, _ := cmd.Flags().GetString("name")
		date, _ := cmd.Flags().GetString("date")
		doors, _ := cmd.Flags().GetString("doors")

		event, err := svc.CreateEvent(ctx, shift.CreateEventInput{
			Name:      name,
			Date:      date,
			DoorsTime: doors,
		})
		if err != nil {
			logging.Error(ctx, "create event failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "create event")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created event: %d %s (%s)\n", event.EventID, event.Name, event.Date); err != nil {
			return errs.Wrap(err, "write create output")
		}
		return nil
	}),
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events, newest first",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *shift.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		includeAll, _ := cmd.Flags().GetBool("all")
		limit, _ := cmd.Flags().GetInt("limit")

		items, err := svc.ListEvents(ctx, shift.ListEventsInput{
			IncludeFinished: includeAll,
			Limit:           limit,
		})
		if err != nil {
			logging.Error(ctx, "list events failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list events")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "id\tdate\tstatus\tname"); err != nil {
			return errs.Wrap(err, "write list header")
		}
		for _, item := range items {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.EventID, item.Date, item.Status, item.Name); err != nil {
				return errs.Wrap(err, "write list row")
			}
		}
		return w.Flush()
	}),
}

var eventShowCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show one event with its time entries and documents",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *shift.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		eventID, err := parseEventID(cmd.Flags().Arg(0))
		if err != nil {
			return err
		}

		event, err := svc.GetEvent(ctx, eventID)
		if err != nil {
			logging.Error(ctx, "get event failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "get event")
		}
		entries, err := svc.ListTimeEntries(ctx, eventID)
		if err != nil {
			return errs.Wrap(err, "list time entries")
		}
		docs, err := svc.ListDocuments(ctx, eventID)
		if err != nil {
			return errs.Wrap(err, "list documents")
		}

		return writeJSON(cmd.OutOrStdout(), struct {
			Event       shift.EventDetail     `json:"event"`
			TimeEntries []shift.TimeEntryItem `json:"time_entries"`
			Documents   []shift.DocumentItem  `json:"documents"`
		}{
			Event:       event,
			TimeEntries: entries,
			Documents:   docs,
		})
	}),
}

var eventAdvanceCmd = &cobra.Command{
	Use:   "advance <event-id> <status>",
	Short: "Move an event one status forward (open->closed->checked, finished->archived)",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *shift.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		eventID, err := parseEventID(cmd.Flags().Arg(0))
		if err != nil {
			return err
		}

		event, err := svc.AdvanceStatus(ctx, shift.AdvanceStatusInput{
			EventID: eventID,
			Target:  cmd.Flags().Arg(1),
		})
		if err != nil {
			logging.Error(ctx, "advance event status failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "advance event status")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "event %d status: %s\n", event.EventID, event.Status); err != nil {
			return errs.Wrap(err, "write advance output")
		}
		return nil
	}),
}

var eventCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the venue's current event",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *shift.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		event, err := svc.CurrentEvent(ctx)
		if err != nil {
			return errs.Wrap(err, "resolve current event")
		}
		return writeJSON(cmd.OutOrStdout(), event)
	}),
}

func init() {
	rootCmd.AddCommand(eventCmd)
	eventCmd.AddCommand(eventCreateCmd)
	eventCmd.AddCommand(eventListCmd)
	eventCmd.AddCommand(eventShowCmd)
	eventCmd.AddCommand(eventAdvanceCmd)
	eventCmd.AddCommand(eventCurrentCmd)

	eventCreateCmd.Flags().String("name", "", "Event name")
	eventCreateCmd.Flags().String("date", "", "Event date (YYYY-MM-DD)")
	eventCreateCmd.Flags().String("doors", "", "Doors time (HH:MM)")
	_ = eventCreateCmd.MarkFlagRequired("name")
	_ = eventCreateCmd.MarkFlagRequired("date")

	eventListCmd.Flags().Bool("all", false, "Include finished and archived events")
	eventListCmd.Flags().Int("limit", 0, "Maximum number of events (0 = no limit)")
}
