package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shiftclose/internal/bootstrap/config"
	"shiftclose/internal/bootstrap/logging"
	"shiftclose/internal/errs"
	"shiftclose/internal/infrastructure/persistence/sqlite/model"
)

func Open(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return nil, err
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.database"))

	switch strings.ToLower(cfg.Driver) {
	case "sqlite", "sqlite3":
		if err := ensureSQLiteDirectory(logCtx, cfg.DSN); err != nil {
			return nil, errs.Wrap(err, "ensure sqlite directory")
		}

		db, err := gorm.Open(gormsqlite.Open(cfg.DSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, errs.Wrap(err, "open sqlite db")
		}
		// Single writer: concurrent closes of one event queue on the
		// connection instead of interleaving inside SQLite.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errs.Wrap(err, "get sql db")
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA busy_timeout = 5000;").Error; err != nil {
			return nil, errs.Wrap(err, "set sqlite busy timeout")
		}

		logging.Info(logCtx, "database opened", slog.String("driver", "sqlite"), slog.String("dsn", cfg.DSN))
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate creates or updates every table the engine uses.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := errs.RequireContext(ctx); err != nil {
		return err
	}
	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}
	return nil
}

func ensureSQLiteDirectory(ctx context.Context, dsn string) error {
	if err := errs.RequireContext(ctx); err != nil {
		return err
	}

	candidate := strings.TrimSpace(dsn)
	if candidate == "" || candidate == ":memory:" {
		return nil
	}

	if strings.HasPrefix(strings.ToLower(candidate), "file:") {
		candidate = candidate[len("file:"):]
	}
	if idx := strings.Index(candidate, "?"); idx >= 0 {
		candidate = candidate[:idx]
	}
	if candidate == "" || strings.HasPrefix(candidate, ":memory:") {
		return nil
	}

	dir := filepath.Dir(candidate)
	if dir == "" || dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrapf(err, "create sqlite directory %q", dir)
	}

	logging.Debug(ctx, "sqlite directory ensured", slog.String("dir", dir))
	return nil
}
