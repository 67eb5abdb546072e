package bootstrap

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"shiftclose/internal/bootstrap/config"
	"shiftclose/internal/bootstrap/database"
	"shiftclose/internal/bootstrap/logging"
	"shiftclose/internal/errs"
)

type App struct {
	Config config.Config
	DB     *gorm.DB
}

func New(ctx context.Context, configFile string) (*App, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return nil, err
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "loading application config", slog.String("config_file", configFile))

	cfg, err := config.Load(logCtx, configFile)
	if err != nil {
		return nil, errs.Wrap(err, "load config")
	}

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, errs.Wrap(err, "open database")
	}

	logging.Info(logCtx, "application bootstrap completed", slog.String("database_driver", cfg.Database.Driver))

	return &App{
		Config: cfg,
		DB:     db,
	}, nil
}

func (a *App) InitSchema(ctx context.Context) error {
	if err := errs.RequireContext(ctx); err != nil {
		return err
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration")

	if err := database.Migrate(ctx, a.DB); err != nil {
		return err
	}

	logging.Info(logCtx, "schema migration completed")
	return nil
}

func (a *App) Close(ctx context.Context) error {
	if err := errs.RequireContext(ctx); err != nil {
		return err
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}

	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.app")), "database connection closed")
	return nil
}
