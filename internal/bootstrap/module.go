package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"shiftclose/internal/bootstrap/config"
	"shiftclose/internal/bootstrap/database"
	"shiftclose/internal/bootstrap/logging"
	"shiftclose/internal/errs"
	"shiftclose/internal/infrastructure/blob"
	cacheinfra "shiftclose/internal/infrastructure/cache"
	"shiftclose/internal/infrastructure/notify"
	pdfinfra "shiftclose/internal/infrastructure/pdf"
	sqliterepo "shiftclose/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "shiftclose/internal/infrastructure/persistence/sqlite/uow"
	"shiftclose/internal/infrastructure/spreadsheet"
	"shiftclose/internal/ports"
	"shiftclose/internal/usecase/shift"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewEventRepository,
			fx.As(new(ports.EventRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(provideBlobStore),
	fx.Provide(
		fx.Annotate(
			pdfinfra.NewPDFCPUMerger,
			fx.As(new(ports.PDFMerger)),
		),
	),
	fx.Provide(
		fx.Annotate(
			spreadsheet.NewExcelizeRenderer,
			fx.As(new(ports.TimesheetRenderer)),
		),
	),
	fx.Provide(provideNotifier),
	fx.Provide(provideShiftService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideBlobStore(cfg config.Config) (ports.BlobStore, error) {
	store, err := blob.NewFSStore(cfg.Storage.Root)
	if err != nil {
		return nil, errs.Wrap(err, "open storage root")
	}
	return store, nil
}

func provideNotifier(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.ShiftNotifier, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))
	if cfg.NATS.URL == "" {
		logging.Debug(logCtx, "nats url not set, shift notices disabled")
		return notify.NoopNotifier{}, nil
	}

	notifier, err := notify.NewNATSNotifier(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	if err != nil {
		return nil, errs.Wrap(err, "connect nats")
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return notifier.Close()
		},
	})
	logging.Info(logCtx, "nats notifier connected", slog.String("subject_prefix", cfg.NATS.SubjectPrefix))
	return notifier, nil
}

type shiftServiceParams struct {
	fx.In

	Config     config.Config
	Repo       ports.EventRepository
	UnitOfWork ports.UnitOfWork
	Cache      ports.Cache
	Blobs      ports.BlobStore
	Merger     ports.PDFMerger
	Timesheets ports.TimesheetRenderer
	Notifier   ports.ShiftNotifier
}

func provideShiftService(p shiftServiceParams) *shift.Service {
	return shift.NewService(shift.Dependencies{
		Repo:       p.Repo,
		UnitOfWork: p.UnitOfWork,
		Cache:      p.Cache,
		Blobs:      p.Blobs,
		Merger:     p.Merger,
		Timesheets: p.Timesheets,
		Notifier:   p.Notifier,
		EventsDir:  p.Config.Storage.EventsDir,
		UploadsDir: p.Config.Storage.UploadsDir,
	})
}
