package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"shiftclose/internal/bootstrap"
	"shiftclose/internal/bootstrap/logging"
	"shiftclose/internal/errs"
	"shiftclose/internal/usecase/console"
	"shiftclose/internal/usecase/shift"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the shift operations console",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *shift.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		includeAll, _ := cmd.Flags().GetBool("all")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 5 * time.Second
		}

		model := console.NewShiftModel(ctx, svc, console.Options{
			IncludeFinished: includeAll,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run shift console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().Bool("all", false, "Include finished and archived events")
	consoleCmd.Flags().Duration("refresh-interval", 5*time.Second, "Auto refresh interval")
}
