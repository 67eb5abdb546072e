package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"shiftclose/internal/bootstrap/logging"
	"shiftclose/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	NATS     NATSConfig     `mapstructure:"nats"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// StorageConfig locates the file storage root. Every path persisted in the
// database is relative to Root.
type StorageConfig struct {
	Root       string `mapstructure:"root"`
	EventsDir  string `mapstructure:"events_dir"`
	UploadsDir string `mapstructure:"uploads_dir"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// NATSConfig enables shift notifications when URL is set.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return Config{}, err
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("storage_root", cfg.Storage.Root),
		slog.Bool("nats_enabled", cfg.NATS.URL != ""),
	)

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}
	if strings.TrimSpace(c.Storage.Root) == "" {
		return errors.New("storage.root is required")
	}
	if strings.Contains(c.Storage.EventsDir, "..") || strings.Contains(c.Storage.UploadsDir, "..") {
		return errors.New("storage directories must stay inside storage.root")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "shiftclose")
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/shiftclose.sqlite")
	v.SetDefault("storage.root", "data/storage")
	v.SetDefault("storage.events_dir", "events")
	v.SetDefault("storage.uploads_dir", "uploads")
	v.SetDefault("http.addr", ":8090")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "shiftclose")
}
