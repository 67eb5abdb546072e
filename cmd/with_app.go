package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"shiftclose/internal/bootstrap"
	"shiftclose/internal/bootstrap/logging"
	"shiftclose/internal/errs"
	"shiftclose/internal/usecase/shift"
)

func withApp(run func(cmd *cobra.Command, app *bootstrap.App, shiftSvc *shift.Service) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var app *bootstrap.App
		var shiftSvc *shift.Service
		fxApp := fx.New(
			bootstrap.Module,
			fx.NopLogger,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(&app, &shiftSvc),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		logger := logging.New(cmd.ErrOrStderr(), app.Config.Log.Format, app.Config.Log.Level)
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

		if err := run(cmd, app, shiftSvc); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}
